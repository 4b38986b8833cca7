package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueName derives a stored-file name from an uploaded filename: the
// sanitized stem, a random uuid component so names cannot collide or be
// guessed, and the original extension lowercased.
func UniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	stem := sanitizeStem(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return stem + "-" + random + ext
}

// sanitizeStem keeps only characters safe for any filesystem; everything
// else collapses to a single dash. An empty result falls back to "file".
func sanitizeStem(stem string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}
