package chain

import "strings"

// sanitizeID normalizes a conversation or persona identifier for use as a
// filename component: '@' becomes '_' (common in persona ids shaped like
// emails), and anything that could escape the storage directory or embed
// control bytes is rejected outright rather than silently stripped.
func sanitizeID(id string) (string, error) {
	if id == "" {
		return "", newValidationErr("id must not be empty")
	}
	if strings.Contains(id, "/") || strings.Contains(id, "..") {
		return "", newValidationErr("id must not contain path separators")
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return "", newValidationErr("id must not contain control characters")
		}
	}
	return strings.ReplaceAll(id, "@", "_"), nil
}
