package vault

import (
	"fmt"
	"path"
	"strings"
)

// cleanName validates an object name: slash-separated, relative, no "..".
func cleanName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty object name")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return "", fmt.Errorf("invalid object name: %q", name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid object name: %q", name)
	}
	return clean, nil
}
