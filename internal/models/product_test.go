package models

import "testing"

func TestParseFileKind(t *testing.T) {
	for raw, want := range map[string]FileKind{
		"cutsheet": FileKindCutsheet,
		"CERT":     FileKindCert,
		" photo ":  FileKindPhoto,
	} {
		got, err := ParseFileKind(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFileKind(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}

	for _, raw := range []string{"", "document", "cutsheets"} {
		if _, err := ParseFileKind(raw); err == nil {
			t.Fatalf("ParseFileKind(%q) accepted an invalid kind", raw)
		}
	}
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		kind FileKind
		ext  string
		want bool
	}{
		{FileKindCutsheet, ".pdf", true},
		{FileKindCutsheet, ".PDF", true},
		{FileKindCutsheet, ".png", false},
		{FileKindCert, ".pdf", true},
		{FileKindCert, ".jpg", true},
		{FileKindCert, ".webp", false},
		{FileKindPhoto, ".webp", true},
		{FileKindPhoto, ".pdf", false},
		{FileKind("bogus"), ".pdf", false},
	}
	for _, tt := range tests {
		if got := AllowedExtension(tt.kind, tt.ext); got != tt.want {
			t.Fatalf("AllowedExtension(%s, %s) = %v, want %v", tt.kind, tt.ext, got, tt.want)
		}
	}
}

func TestProductFilenameSlots(t *testing.T) {
	var product Product
	product.SetFilename(FileKindCutsheet, "a.pdf")
	product.SetFilename(FileKindCert, "b.png")

	if product.Filename(FileKindCutsheet) != "a.pdf" || !product.HasFile(FileKindCutsheet) {
		t.Fatalf("cutsheet slot not set: %+v", product)
	}
	if product.Filename(FileKindPhoto) != "" || product.HasFile(FileKindPhoto) {
		t.Fatalf("photo slot should be empty: %+v", product)
	}
}

func TestProductLabel(t *testing.T) {
	product := Product{Name: "Panel Light", ModelNumber: "LX-100"}
	if product.Label() != "LX-100" {
		t.Fatalf("Label = %q, want the model number", product.Label())
	}

	product.ModelNumber = "  "
	if product.Label() != "Panel Light" {
		t.Fatalf("Label = %q, want the name", product.Label())
	}
}

func TestCertIsPDF(t *testing.T) {
	product := Product{CertFilename: "cert-abc.PDF"}
	if !product.CertIsPDF() {
		t.Fatalf("CertIsPDF = false for a .PDF filename")
	}
	product.CertFilename = "cert-abc.png"
	if product.CertIsPDF() {
		t.Fatalf("CertIsPDF = true for a .png filename")
	}
	product.CertFilename = ""
	if product.CertIsPDF() {
		t.Fatalf("CertIsPDF = true for an empty slot")
	}
}
