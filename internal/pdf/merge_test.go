package pdf

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

func singlePageDoc(t *testing.T, c color.Color) []byte {
	t.Helper()
	doc, err := NormalizeImage(pngBytes(t, 20, 20, c))
	if err != nil {
		t.Fatalf("build fixture document: %v", err)
	}
	return doc
}

func TestMergeEmptyInput(t *testing.T) {
	if _, err := Merge(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Merge(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := Merge([][]byte{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Merge(empty) error = %v, want ErrEmptyInput", err)
	}
}

func TestMergeSingleDocument(t *testing.T) {
	doc := singlePageDoc(t, color.RGBA{R: 255, A: 255})

	merged, err := Merge([][]byte{doc})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	pages, err := PageCount(merged)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if pages != 1 {
		t.Fatalf("PageCount = %d, want 1", pages)
	}
}

func TestMergeConcatenatesInOrder(t *testing.T) {
	first := singlePageDoc(t, color.RGBA{R: 255, A: 255})
	second := singlePageDoc(t, color.RGBA{B: 255, A: 255})

	merged, err := Merge([][]byte{first, second})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !bytes.HasPrefix(merged, []byte("%PDF")) {
		t.Fatalf("merged output does not start with a PDF header")
	}

	pages, err := PageCount(merged)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if pages != 2 {
		t.Fatalf("PageCount = %d, want 2", pages)
	}
}

func TestMergeReportsMalformedInputPosition(t *testing.T) {
	valid := singlePageDoc(t, color.RGBA{G: 255, A: 255})

	_, err := Merge([][]byte{valid, []byte("definitely not a pdf")})
	if err == nil {
		t.Fatalf("Merge accepted a malformed document")
	}

	var malformed *MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedDocumentError", err)
	}
	if malformed.Position != 2 {
		t.Fatalf("Position = %d, want 2", malformed.Position)
	}
}
