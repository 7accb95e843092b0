package util

import "strings"

// TrimTo limits a string to max bytes, attempting to cut on line boundaries.
// A non-positive max disables truncation.
func TrimTo(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	head := s[:max]
	if idx := strings.LastIndex(head, "\n"); idx > 0 {
		head = head[:idx]
	}
	return head + "\n…[diff truncated]"
}
