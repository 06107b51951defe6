package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Snippet is the text found around an article link, split into roles.
type Snippet struct {
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	Publisher   string   `json:"publisher"`
	Unpredicted []string `json:"unpredicted"`
}

// Classify assigns each fragment to a role in a single left-to-right pass.
//
// A fragment longer than minSummaryLen replaces the summary text when it
// sorts after the current one. The comparison is lexicographic, not by
// length. Otherwise the last fragment (or any fragment when there are at
// most two) becomes the publisher, whitespace-free fragments become tags,
// and everything else is kept as unpredicted.
func Classify(fragments []string, minSummaryLen int) Snippet {
	s := Snippet{
		Tags:        []string{},
		Unpredicted: []string{},
	}
	n := len(fragments)

	for i, frag := range fragments {
		switch {
		case utf8.RuneCountInString(frag) > minSummaryLen && frag > s.Text:
			s.Text = frag
		case n <= 2 || i == n-1:
			s.Publisher = frag
		case !hasSpace(frag):
			s.Tags = append(s.Tags, frag)
		default:
			s.Unpredicted = append(s.Unpredicted, frag)
		}
	}
	return s
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
