package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileKind names one of the file slots a product can carry.
type FileKind string

const (
	FileKindCutsheet FileKind = "cutsheet"
	FileKindCert     FileKind = "cert"
	FileKindPhoto    FileKind = "photo"
)

var validFileKinds = map[FileKind]struct{}{
	FileKindCutsheet: {},
	FileKindCert:     {},
	FileKindPhoto:    {},
}

var allowedExtensions = map[FileKind]map[string]struct{}{
	FileKindCutsheet: {".pdf": {}},
	FileKindCert:     {".pdf": {}, ".png": {}, ".jpg": {}, ".jpeg": {}},
	FileKindPhoto:    {".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}},
}

// ParseFileKind validates a raw file kind value.
func ParseFileKind(raw string) (FileKind, error) {
	value := FileKind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("file kind is required")
	}
	if _, ok := validFileKinds[value]; !ok {
		return "", fmt.Errorf("invalid file kind: %s", value)
	}
	return value, nil
}

// AllowedExtension reports whether ext is acceptable for the given kind.
// ext must include the leading dot.
func AllowedExtension(kind FileKind, ext string) bool {
	exts, ok := allowedExtensions[kind]
	if !ok {
		return false
	}
	_, ok = exts[strings.ToLower(strings.TrimSpace(ext))]
	return ok
}

// Product is a managed product record with up to three stored files.
type Product struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	ModelNumber      string    `json:"model_number,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CutsheetFilename string    `json:"cutsheet_filename,omitempty"`
	CertFilename     string    `json:"cert_filename,omitempty"`
	PhotoFilename    string    `json:"photo_filename,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Filename returns the stored-file name for kind, or "" when the slot is empty.
func (p *Product) Filename(kind FileKind) string {
	if p == nil {
		return ""
	}
	switch kind {
	case FileKindCutsheet:
		return p.CutsheetFilename
	case FileKindCert:
		return p.CertFilename
	case FileKindPhoto:
		return p.PhotoFilename
	}
	return ""
}

// SetFilename assigns the stored-file name for kind.
func (p *Product) SetFilename(kind FileKind, name string) {
	if p == nil {
		return
	}
	switch kind {
	case FileKindCutsheet:
		p.CutsheetFilename = name
	case FileKindCert:
		p.CertFilename = name
	case FileKindPhoto:
		p.PhotoFilename = name
	}
}

// HasFile reports whether the slot for kind is populated.
func (p *Product) HasFile(kind FileKind) bool {
	return p.Filename(kind) != ""
}

// Label returns the human-facing identifier used for download and archive
// naming: the model number when set, otherwise the name.
func (p *Product) Label() string {
	if p == nil {
		return ""
	}
	if label := strings.TrimSpace(p.ModelNumber); label != "" {
		return label
	}
	return strings.TrimSpace(p.Name)
}

// CertIsPDF reports whether the stored certification is already a document
// and needs no image conversion.
func (p *Product) CertIsPDF() bool {
	return strings.EqualFold(filepath.Ext(p.Filename(FileKindCert)), ".pdf")
}
