package browser

import (
	"reflect"
	"testing"
)

func TestCommandRejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
		"://missing-scheme",
	} {
		if _, _, err := command("linux", raw); err == nil {
			t.Errorf("command(%q): expected error, got nil", raw)
		}
	}
}

func TestCommandPerPlatform(t *testing.T) {
	const link = "https://javascriptweekly.com/issues/700"
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{link}},
		{"linux", "xdg-open", []string{link}},
		{"freebsd", "xdg-open", []string{link}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", link}},
	}

	for _, tt := range tests {
		name, args, err := command(tt.goos, link)
		if err != nil {
			t.Errorf("command(%s): unexpected error: %v", tt.goos, err)
			continue
		}
		if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("command(%s) = %s %v, want %s %v", tt.goos, name, args, tt.wantName, tt.wantArgs)
		}
	}
}
