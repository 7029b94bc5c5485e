package storage

import (
	"strings"

	"github.com/google/uuid"
)

// ObjectKey generates a collision-resistant storage key for an uploaded file,
// preserving the original file extension when one is present. The extension
// is expected without a leading dot ("pdf", "webm").
func ObjectKey(ext string) string {
	key := uuid.NewString()
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return key
	}
	return key + "." + strings.ToLower(ext)
}

// ExtensionOf returns the extension of a file name without the dot, or ""
// when the name has none.
func ExtensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
