package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matheuskafuri/jsweekly/internal/classify"
)

// Number is an issue number, or the placeholder used when it could not be
// read. It encodes as a JSON number when valid and as a string otherwise.
type Number struct {
	Value       int
	Placeholder string
}

func NumberOf(n int) Number {
	return Number{Value: n}
}

func PlaceholderNumber(placeholder string) Number {
	return Number{Placeholder: placeholder}
}

// Valid reports whether n is a concrete issue number usable as a cache key.
func (n Number) Valid() bool {
	return n.Placeholder == "" && n.Value > 0
}

func (n Number) String() string {
	if n.Valid() {
		return strconv.Itoa(n.Value)
	}
	return n.Placeholder
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n.Valid() {
		return []byte(strconv.Itoa(n.Value)), nil
	}
	return json.Marshal(n.Placeholder)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = PlaceholderNumber(s)
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("issue number %s: %w", data, err)
	}
	*n = NumberOf(v)
	return nil
}

type Issue struct {
	IssueNumber Number    `json:"issueNumber"`
	IssueDate   string    `json:"issueDate"`
	IssueURL    string    `json:"issueURL"`
	Articles    []Article `json:"articles"`
}

type Article struct {
	Title   string           `json:"title"`
	Href    string           `json:"href"`
	Snippet classify.Snippet `json:"snippet"`
}
