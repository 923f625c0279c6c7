package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// SanitizeFileName normalizes an uploaded report's name for use inside a
// storage key: separators are flattened to underscores and names carrying a
// traversal sequence are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := separatorReplacer.Replace(strings.TrimSpace(name))
	if s == "" {
		return "", errInvalidFileName
	}
	return s, nil
}
