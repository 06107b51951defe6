package extract

import (
	"reflect"
	"testing"

	"github.com/matheuskafuri/jsweekly/internal/document"
)

const issuePage = `<html>
<head><title>JS Weekly Issue 123: Jan 5th</title></head>
<body>
<ul>
  <li>
    <a href="https://javascriptweekly.com/link/1/web">Understanding Closures</a>
    <p>Understanding Closures — a deep dive into scopes and how they capture state.</p>
    <span>tutorial</span>
    <span>Jane Doe</span>
  </li>
  <li><a href="https://elsewhere.example/post">Not an article</a><p>ignored</p></li>
  <li><a href="https://javascriptweekly.com/link/2/web">   </a><p>empty title</p></li>
</ul>
<table>
<tr><td>
<a href="https://javascriptweekly.com/link/3/web">Node.js 22 Released</a>
The latest release brings a new test runner.
-- Node.js Blog --
</td></tr>
</table>
<div><a href="https://javascriptweekly.com/link/4/web">Orphan link</a></div>
<ul><li><span><a href="https://cooperpress.com/link/5"><img src="x.png"></a></span><span>Sponsor text here</span></li></ul>
<ul><li><a href="https://javascriptweekly.com/link/1/web">Understanding Closures</a></li></ul>
</body></html>`

func testExtractor() *Extractor {
	return New("javascriptweekly.com/link/", []string{"cooperpress.com/link/"})
}

func TestArticlesDocumentOrder(t *testing.T) {
	got := testExtractor().Articles(document.Load(issuePage))

	hrefs := make([]string, len(got))
	for i, c := range got {
		hrefs[i] = c.Href
	}
	want := []string{
		"https://javascriptweekly.com/link/1/web",
		"https://javascriptweekly.com/link/3/web",
		"https://cooperpress.com/link/5",
		"https://javascriptweekly.com/link/1/web",
	}
	if !reflect.DeepEqual(hrefs, want) {
		t.Errorf("unexpected articles:\n got  %v\n want %v", hrefs, want)
	}
}

func TestArticlesListItemFragments(t *testing.T) {
	got := testExtractor().Articles(document.Load(issuePage))
	if len(got) == 0 {
		t.Fatal("expected articles")
	}
	first := got[0]
	if first.Title != "Understanding Closures" {
		t.Errorf("unexpected title %q", first.Title)
	}
	want := []string{
		"a deep dive into scopes and how they capture state",
		"tutorial",
		"Jane Doe",
	}
	if !reflect.DeepEqual(first.Fragments, want) {
		t.Errorf("unexpected fragments:\n got  %q\n want %q", first.Fragments, want)
	}
}

func TestArticlesTableFragments(t *testing.T) {
	got := testExtractor().Articles(document.Load(issuePage))
	if len(got) < 2 {
		t.Fatalf("expected table article, got %d articles", len(got))
	}
	table := got[1]
	want := []string{
		"The latest release brings a new test runner",
		"Node.js Blog",
	}
	if !reflect.DeepEqual(table.Fragments, want) {
		t.Errorf("unexpected fragments:\n got  %q\n want %q", table.Fragments, want)
	}
}

func TestArticlesAllowedLinkWithoutText(t *testing.T) {
	got := testExtractor().Articles(document.Load(issuePage))
	if len(got) < 3 {
		t.Fatalf("expected allowed-link article, got %d articles", len(got))
	}
	sponsor := got[2]
	if sponsor.Title != "" {
		t.Errorf("expected empty title for image link, got %q", sponsor.Title)
	}
	if !reflect.DeepEqual(sponsor.Fragments, []string{"Sponsor text here"}) {
		t.Errorf("unexpected fragments %q", sponsor.Fragments)
	}
}

func TestArticlesRepeatedHrefNotMerged(t *testing.T) {
	got := testExtractor().Articles(document.Load(issuePage))
	last := got[len(got)-1]
	if last.Href != got[0].Href {
		t.Fatalf("expected repeated link at the end, got %q", last.Href)
	}
	if len(last.Fragments) != 0 {
		t.Errorf("expected the title-only item to have no fragments, got %q", last.Fragments)
	}
}

func TestArticlesUnparseableInput(t *testing.T) {
	for _, raw := range []string{"", "garbage", "<a href='javascriptweekly.com/link/x'>x</a>"} {
		if got := testExtractor().Articles(document.Load(raw)); len(got) != 0 {
			t.Errorf("Articles(%q): expected none, got %v", raw, got)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		text, title, want string
	}{
		{"Title — some summary.", "Title", "some summary"},
		{"  ...hello world!!  ", "", "hello world"},
		{"Title and Title again", "Title", "and Title again"},
		{"---", "", ""},
		{"by Jane Doe", "Unrelated", "by Jane Doe"},
		{"(tutorial)", "", "tutorial"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.text, tt.title); got != tt.want {
			t.Errorf("cleanText(%q, %q) = %q, want %q", tt.text, tt.title, got, tt.want)
		}
	}
}

func titled(title string) *document.Document {
	return document.Load("<html><head><title>" + title + "</title></head><body></body></html>")
}

func TestIssueNumber(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"JS Weekly Issue 123: Jan 5th", "123"},
		{"Issue #7", "7"},
		{"No digits here", "ERR1"},
		{"Issue 0", "ERR1"},
		{"", "ERR1"},
		{"Issue 99999999999999999999999", "ERR1"},
	}
	for _, tt := range tests {
		got := IssueNumber(titled(tt.title), "ERR1")
		if got.String() != tt.want {
			t.Errorf("IssueNumber(%q) = %q, want %q", tt.title, got.String(), tt.want)
		}
	}
	if !IssueNumber(titled("Issue 12"), "ERR1").Valid() {
		t.Error("expected parsed number to be valid")
	}
}

func TestIssueDate(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"JS Weekly Issue 123: Jan 5th", "Jan 5th"},
		{"Issue 400: SEPTEMBER 12, 2018", "SEPTEMBER 12, 2018"},
		{"Issue 12: december 1", "december 1"},
		{"Issue 12", "ERR3"},
		{"", "ERR3"},
	}
	for _, tt := range tests {
		if got := IssueDate(titled(tt.title), "ERR3"); got != tt.want {
			t.Errorf("IssueDate(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
