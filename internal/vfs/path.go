package vfs

import "strings"

const (
	separator         = "/"
	currentDirectory  = "."
	parentDirectory   = ".."
)

func isFullyQualified(path string) bool {
	return strings.HasPrefix(path, separator)
}

func splitSegments(path string) []string {
	raw := strings.Split(path, separator)
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// directoryName and baseName split a path the way path.Dir/path.Base do for
// POSIX paths, but tolerate the empty string (meaning "the given root").
func directoryName(p string) string {
	trimmed := strings.TrimRight(p, separator)
	idx := strings.LastIndex(trimmed, separator)
	if idx < 0 {
		return ""
	}
	return trimmed[:idx]
}

func baseName(p string) string {
	trimmed := strings.TrimRight(p, separator)
	idx := strings.LastIndex(trimmed, separator)
	return trimmed[idx+1:]
}
