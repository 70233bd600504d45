package utils

import "strings"

var headerFilenameReplacer = strings.NewReplacer("\r", "", "\n", "", `"`, "")

// SanitizeHeaderFilename strips characters that would break a
// Content-Disposition header. Empty input falls back to a generic name.
func SanitizeHeaderFilename(name string) string {
	clean := headerFilenameReplacer.Replace(strings.TrimSpace(name))
	if clean == "" {
		return "download"
	}
	return clean
}
