package model

import (
	"regexp"
	"strings"
)

// Package-level compiled regex for slug creation (avoids recompilation per call)
var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a directory-safe slug from a project name: lowercase,
// runs of non-alphanumeric characters collapsed to a single hyphen, leading
// and trailing hyphens trimmed.
//
//	"My Study!"   -> "my-study"
//	"  A -- B  "  -> "a-b"
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugNonAlphanumericRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
