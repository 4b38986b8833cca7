package storage

import (
	"strings"
	"testing"
)

func TestUniqueNameSanitizesStem(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantStem string
		wantExt  string
	}{
		{"simple", "cutsheet.pdf", "cutsheet", ".pdf"},
		{"spaces collapse", "my cut  sheet.pdf", "my-cut-sheet", ".pdf"},
		{"uppercase extension lowered", "PHOTO.JPG", "PHOTO", ".jpg"},
		{"path stripped", "../../etc/passwd.pdf", "passwd", ".pdf"},
		{"unsafe runs collapse", "a//b??c.png", "a-b-c", ".png"},
		{"all unsafe falls back", "????.pdf", "file", ".pdf"},
		{"no extension", "readme", "readme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueName(tt.input)
			if !strings.HasPrefix(got, tt.wantStem+"-") {
				t.Fatalf("UniqueName(%q) = %q, want prefix %q", tt.input, got, tt.wantStem+"-")
			}
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Fatalf("UniqueName(%q) = %q, want suffix %q", tt.input, got, tt.wantExt)
			}
			random := strings.TrimSuffix(strings.TrimPrefix(got, tt.wantStem+"-"), tt.wantExt)
			if len(random) != 32 {
				t.Fatalf("random component %q has length %d, want 32", random, len(random))
			}
		})
	}
}

func TestUniqueNameIsUnique(t *testing.T) {
	if UniqueName("a.pdf") == UniqueName("a.pdf") {
		t.Fatalf("two calls produced the same stored name")
	}
}
