// Package update checks GitHub releases for a newer jsweekly build.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const ReleasesURL = "https://api.github.com/repos/matheuskafuri/jsweekly/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	URL    string
	Client *http.Client
}

func NewChecker(client *http.Client) *Checker {
	return &Checker{URL: ReleasesURL, Client: client}
}

// Check returns the newer release, or nil when currentVersion is already
// the latest. Development builds are never reported as outdated.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking releases: unexpected status %d", resp.StatusCode)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || latest == current {
		return nil, nil
	}
	return &Result{LatestVersion: latest}, nil
}
