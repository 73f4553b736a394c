package utils

import (
	"path/filepath"
	"strings"
)

// InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

// Extension returns given file name's extension, lower cased and without the leading dot ("clip.MP4" => "mp4")
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// MegaBytes converts a size in MB to bytes
func MegaBytes(mb int) int64 {
	return int64(mb) << 20
}
