package utils

import (
	"os"
	"slices"
	"strings"
)

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// Dedupe returns values without empty strings and repeats, keeping order.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		out = append(out, v)
		seen[v] = true
	}
	return out
}
