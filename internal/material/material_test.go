package material

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_TextInlined(t *testing.T) {
	notes := writeFile(t, "notes.md", []byte("# Photosynthesis\n\nPlants convert light into sugar."))

	src, err := Load([]string{notes})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !strings.Contains(src.Text, "Plants convert light") {
		t.Errorf("text not inlined: %q", src.Text)
	}
	if !strings.Contains(src.Text, notes) {
		t.Error("expected file name header in inlined text")
	}
	if len(src.Attachments) != 0 {
		t.Errorf("text must not become an attachment")
	}
	if src.Empty() {
		t.Error("source should not be empty")
	}
}

func TestLoad_PDFBecomesAttachment(t *testing.T) {
	// Minimal PDF header is enough for content sniffing.
	pdf := writeFile(t, "slides.pdf", []byte("%PDF-1.4\n%fake\n"))

	src, err := Load([]string{pdf})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(src.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(src.Attachments))
	}
	if src.Attachments[0].MIMEType != "application/pdf" {
		t.Errorf("mime = %q", src.Attachments[0].MIMEType)
	}
	if src.Text != "" {
		t.Error("PDF must not be inlined as text")
	}
}

func TestLoad_PNGBecomesAttachment(t *testing.T) {
	png := writeFile(t, "diagram.png", []byte("\x89PNG\r\n\x1a\n00000000"))

	src, err := Load([]string{png})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(src.Attachments) != 1 || src.Attachments[0].MIMEType != "image/png" {
		t.Fatalf("unexpected attachments: %+v", src.Attachments)
	}
}

func TestLoad_UnsupportedTypeRejected(t *testing.T) {
	bin := writeFile(t, "data.zip", []byte("PK\x03\x04zipzipzip"))

	_, err := Load([]string{bin})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !strings.Contains(err.Error(), "unsupported content type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EmptyFileRejected(t *testing.T) {
	empty := writeFile(t, "empty.txt", nil)

	if _, err := Load([]string{empty}); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load([]string{"/no/such/file.txt"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAddText(t *testing.T) {
	src := &Source{}
	src.AddText("  inline notes  ")
	src.AddText("")
	src.AddText("more")

	if src.Text != "inline notes\n\nmore" {
		t.Errorf("text = %q", src.Text)
	}
}
