package search

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches the first ```xml code fence in a model reply.
var fencePattern = regexp.MustCompile("(?s)```xml(.*?)```")

// ExtractFencedXML returns the content of the first ```xml fence, stripped
// of surrounding whitespace, or the empty string when no fence is present.
func ExtractFencedXML(message string) string {
	m := fencePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// RepoDescriptor is one selected repository in a query result.
type RepoDescriptor struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Result is the JSON-shaped payload of a completed search.
type Result struct {
	Repositories []RepoDescriptor `json:"Repositories"`
}

type xmlRepository struct {
	Name        string `xml:"name"`
	Owner       string `xml:"owner"`
	URL         string `xml:"url"`
	Description string `xml:"description"`
	Keywords    string `xml:"keywords"`
}

type xmlContainer struct {
	Repositories []xmlRepository `xml:",any"`
}

// ParseRepositories converts the XML container produced by the re-ranker
// into a flat descriptor list, preserving element order. Malformed XML is a
// hard error that propagates to the caller.
func ParseRepositories(xmlContent string) ([]RepoDescriptor, error) {
	var container xmlContainer
	if err := xml.Unmarshal([]byte(xmlContent), &container); err != nil {
		return nil, fmt.Errorf("parsing repositories XML: %w", err)
	}

	descriptors := make([]RepoDescriptor, len(container.Repositories))
	for i, r := range container.Repositories {
		descriptors[i] = RepoDescriptor{
			Name:        strings.TrimSpace(r.Name),
			Owner:       strings.TrimSpace(r.Owner),
			URL:         strings.TrimSpace(r.URL),
			Description: strings.TrimSpace(r.Description),
			Keywords:    strings.TrimSpace(r.Keywords),
		}
	}
	return descriptors, nil
}
