// Package extract finds articles and issue metadata in a newsletter page.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/document"
)

var (
	digitsRe    = regexp.MustCompile(`\d+`)
	monthRe     = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sept|oct|nov|dec).*`)
	edgeNonWord = regexp.MustCompile(`^\W+|\W+$`)
)

// Candidate is an article anchor and the raw text fragments around it.
type Candidate struct {
	Title     string
	Href      string
	Fragments []string
}

type Extractor struct {
	identifier   string
	allowedLinks []string
}

func New(identifier string, allowedLinks []string) *Extractor {
	return &Extractor{identifier: identifier, allowedLinks: allowedLinks}
}

// Articles returns every qualifying anchor in document order. Anchors that
// sit in neither a list item nor a table are skipped.
func (e *Extractor) Articles(doc *document.Document) []Candidate {
	var out []Candidate
	for _, a := range doc.Anchors() {
		if !e.isArticle(a) {
			continue
		}
		title := a.Text()
		fragments, ok := fragmentsFor(a, title)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Title:     title,
			Href:      a.Attr("href"),
			Fragments: fragments,
		})
	}
	return out
}

func (e *Extractor) isArticle(a document.Node) bool {
	href := a.Attr("href")
	if href == "" {
		return false
	}
	if e.identifier != "" && strings.Contains(href, e.identifier) && a.Text() != "" {
		return true
	}
	for _, link := range e.allowedLinks {
		if link != "" && strings.Contains(href, link) {
			return true
		}
	}
	return false
}

func fragmentsFor(a document.Node, title string) ([]string, bool) {
	if li := a.Closest("li"); !li.Empty() {
		var out []string
		for _, child := range li.Children() {
			if text := cleanText(child.Text(), title); text != "" {
				out = append(out, text)
			}
		}
		return out, true
	}

	if table := a.Closest("table"); !table.Empty() {
		var out []string
		for _, line := range strings.Split(table.RawText(), "\n") {
			if text := cleanText(line, title); text != "" {
				out = append(out, text)
			}
		}
		return out, true
	}

	return nil, false
}

// cleanText drops the first occurrence of title and trims non-word edges.
func cleanText(text, title string) string {
	if title != "" {
		text = strings.Replace(text, title, "", 1)
	}
	return strings.TrimSpace(edgeNonWord.ReplaceAllString(text, ""))
}

// IssueNumber reads the first run of digits in the page title.
func IssueNumber(doc *document.Document, placeholder string) cache.Number {
	m := digitsRe.FindString(doc.Title())
	if m == "" {
		return cache.PlaceholderNumber(placeholder)
	}
	n, err := strconv.Atoi(m)
	if err != nil || n == 0 {
		return cache.PlaceholderNumber(placeholder)
	}
	return cache.NumberOf(n)
}

// IssueDate returns the title from the first month name onwards.
func IssueDate(doc *document.Document, placeholder string) string {
	if m := monthRe.FindString(doc.Title()); m != "" {
		return m
	}
	return placeholder
}
