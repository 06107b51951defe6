package classify

import (
	"reflect"
	"testing"
)

func TestClassifyTextAndPublisher(t *testing.T) {
	got := Classify([]string{"JavaScript 101", "by Jane Doe"}, 5)
	if got.Text != "JavaScript 101" {
		t.Errorf("expected text JavaScript 101, got %q", got.Text)
	}
	if got.Publisher != "by Jane Doe" {
		t.Errorf("expected publisher by Jane Doe, got %q", got.Publisher)
	}
	if len(got.Tags) != 0 || len(got.Unpredicted) != 0 {
		t.Errorf("expected no tags or unpredicted, got %v / %v", got.Tags, got.Unpredicted)
	}
}

func TestClassifyLexicographicNotLength(t *testing.T) {
	// "zebra crossing" is shorter but sorts after the longer fragment.
	got := Classify([]string{"a much longer summary sentence", "zebra crossing", "x", "Publisher"}, 5)
	if got.Text != "zebra crossing" {
		t.Errorf("expected lexicographically largest fragment, got %q", got.Text)
	}

	got = Classify([]string{"zebra crossing", "a much longer summary sentence", "x", "Publisher"}, 5)
	if got.Text != "zebra crossing" {
		t.Errorf("expected earlier larger fragment to be kept, got %q", got.Text)
	}
	// The smaller long fragment falls through to the later rules.
	if !reflect.DeepEqual(got.Unpredicted, []string{"a much longer summary sentence"}) {
		t.Errorf("expected displaced candidate in unpredicted, got %v", got.Unpredicted)
	}
}

func TestClassifyTagsUnpredictedPublisher(t *testing.T) {
	frags := []string{
		"A long enough description of the article",
		"tutorial",
		"two words",
		"video",
		"Smashing Magazine",
	}
	got := Classify(frags, 20)

	want := Snippet{
		Text:        "A long enough description of the article",
		Tags:        []string{"tutorial", "video"},
		Publisher:   "Smashing Magazine",
		Unpredicted: []string{"two words"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Classify() = %+v, want %+v", got, want)
	}
}

func TestClassifyShortListEverythingIsPublisher(t *testing.T) {
	got := Classify([]string{"one", "two"}, 10)
	if got.Publisher != "two" {
		t.Errorf("expected last write to win, got %q", got.Publisher)
	}
	if got.Text != "" {
		t.Errorf("expected no text, got %q", got.Text)
	}
}

func TestClassifyLongLastFragmentIsText(t *testing.T) {
	got := Classify([]string{"tag", "other", "this one is long enough"}, 10)
	if got.Text != "this one is long enough" {
		t.Errorf("expected text rule to take precedence, got %q", got.Text)
	}
	if got.Publisher != "" {
		t.Errorf("expected no publisher, got %q", got.Publisher)
	}
	if !reflect.DeepEqual(got.Tags, []string{"tag", "other"}) {
		t.Errorf("unexpected tags %v", got.Tags)
	}
}

func TestClassifyLengthBoundary(t *testing.T) {
	// Exactly minSummaryLen characters is not enough.
	got := Classify([]string{"12345"}, 5)
	if got.Text != "" || got.Publisher != "12345" {
		t.Errorf("expected boundary fragment to be publisher, got %+v", got)
	}

	got = Classify([]string{"héllo!"}, 5)
	if got.Text != "héllo!" {
		t.Errorf("expected rune length 6 > 5 to qualify, got %+v", got)
	}
}

func TestClassifyEmpty(t *testing.T) {
	got := Classify(nil, 5)
	if got.Tags == nil || got.Unpredicted == nil {
		t.Error("expected non-nil empty slices")
	}
	if got.Text != "" || got.Publisher != "" {
		t.Errorf("expected empty snippet, got %+v", got)
	}
}

func TestClassifyIsPureAndPartitions(t *testing.T) {
	frags := []string{"alpha", "beta gamma", "delta", "a sufficiently long summary", "epsilon zeta", "Publisher Inc"}
	first := Classify(frags, 15)
	second := Classify(frags, 15)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}

	placed := len(first.Tags) + len(first.Unpredicted)
	if first.Text != "" {
		placed++
	}
	if first.Publisher != "" {
		placed++
	}
	if placed != len(frags) {
		t.Errorf("expected every fragment in exactly one bucket, placed %d of %d: %+v", placed, len(frags), first)
	}
}
