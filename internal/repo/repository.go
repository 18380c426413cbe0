// Package repo models a starred GitHub repository and its on-disk document
// rendering. One markdown document is written per repository, containing a
// field-labeled dump of the repository including its README.
package repo

import (
	"strconv"
	"strings"
)

// Repository is a starred repository as fetched from the hosting API.
// Identity is (Owner, Name). Readme is populated lazily on first use and
// cached on the value; it stays empty if the README cannot be fetched.
type Repository struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	URL         string `json:"url"`
	Readme      string `json:"readme_content"`
}

// fieldDesc pairs a dump field with its heading description and accessor.
// The table fixes the rendering order explicitly instead of reflecting over
// struct fields.
type fieldDesc struct {
	name  string
	desc  string
	value func(r *Repository) string
}

var fieldTable = []fieldDesc{
	{"owner", "The owner of the repository.",
		func(r *Repository) string { return r.Owner }},
	{"name", "The name of the repository.",
		func(r *Repository) string { return r.Name }},
	{"description", "A simple description of the repository.",
		func(r *Repository) string { return r.Description }},
	{"stargazers_count", "Indicates how many people have collected the repository.",
		func(r *Repository) string { return strconv.Itoa(r.Stars) }},
	{"url", "The url of the repository.",
		func(r *Repository) string { return r.URL }},
	{"readme_content", "A detailed introduction of the repository. Parse content in Markdown format. Some of the content needs to be parsed in HTML format.",
		func(r *Repository) string { return r.Readme }},
}

// Markdown renders the repository as a field-labeled markdown document:
// one "# field (description)" heading per field, in table order, each
// followed by the field value.
func (r *Repository) Markdown() string {
	parts := make([]string, len(fieldTable))
	for i, f := range fieldTable {
		parts[i] = "# " + f.name + " (" + f.desc + ")\n" + f.value(r)
	}
	return strings.Join(parts, "\n")
}
