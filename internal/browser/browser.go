// Package browser hands issue links to the desktop's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open starts the browser on link without waiting for it to exit.
func Open(link string) error {
	name, args, err := command(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// command picks the launcher for goos. Only web links are passed on.
func command(goos, link string) (string, []string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", nil, fmt.Errorf("parsing link %q: %w", link, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("not a web link: %q", link)
	}

	launcher := map[string][]string{
		"darwin":  {"open"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler"},
	}[goos]
	if launcher == nil {
		launcher = []string{"xdg-open"}
	}
	return launcher[0], append(launcher[1:], link), nil
}
