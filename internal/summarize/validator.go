package summarize

import "strings"

// Validator decides whether a generated summary is acceptable for indexing.
type Validator interface {
	Valid(summary string) bool
}

// requiredTags are the opening tags every summary must carry.
var requiredTags = []string{
	"<Repository>", "<name>", "<owner>", "<url>", "<description>", "<keywords>",
}

// TagValidator accepts a summary iff every required tag appears as a
// substring. Well-formedness and nesting are deliberately not checked; the
// six tags concatenated with no surrounding structure still validate.
type TagValidator struct{}

func (TagValidator) Valid(summary string) bool {
	for _, tag := range requiredTags {
		if !strings.Contains(summary, tag) {
			return false
		}
	}
	return true
}
