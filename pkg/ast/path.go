package ast

import "strings"

// CleanPath strips leading and trailing separators and collapses
// repeated ones: "/Car//Engine/" becomes "Car/Engine".
func CleanPath(path string) string {
	if path == "" {
		return ""
	}
	return strings.Join(SplitPath(path), PathSeparator)
}

// SplitPath splits a path into its non-empty segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}

	segments := make([]string, 0)
	start := 0
	for i := range len(path) {
		if path[i] == PathSeparator[0] {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}

	return segments
}

// JoinPath joins path parts with the separator, skipping empty parts.
func JoinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, SplitPath(p)...)
	}
	return strings.Join(segments, PathSeparator)
}

// ParamPath resolves a section path and key into the param's full name,
// its section's full name and its own name.
func ParamPath(path, key string) (full, dir, name string) {
	dir, name = splitLast(JoinPath(path, key))
	return dir + PathSeparator + name, dir, name
}

// splitLast splits a clean path at its last separator.
func splitLast(full string) (dir, name string) {
	i := strings.LastIndex(full, PathSeparator)
	if i < 0 {
		return "", full
	}
	return full[:i], full[i+1:]
}
