package format

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{StextJSON, "StextJSON"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{StextJSON, ".json"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.pdf", PDF},
		{"document.PDF", PDF},
		{"/path/to/report.Pdf", PDF},
		{"document.json", StextJSON},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Detect(tt.filename); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"PDF magic", []byte("%PDF-1.7\n"), PDF},
		{"stext", []byte(`{"pages":[{"width":612}]}`), StextJSON},
		{"stext with whitespace", []byte("\n  {\n  \"pages\": []\n}"), StextJSON},
		{"other JSON", []byte(`{"title":"x"}`), Unknown},
		{"JSON array", []byte(`[{"pages":1}]`), Unknown},
		{"too short", []byte("%P"), Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	got, err := DetectFromReader(bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("DetectFromReader error: %v", err)
	}
	if got != PDF {
		t.Errorf("DetectFromReader() = %v, want PDF", got)
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want Format
	}{
		{"pdf content wins over extension", write("mislabeled.json", "%PDF-1.5"), PDF},
		{"stext without extension", write("render", `{"pages":[]}`), StextJSON},
		{"extension fallback", write("empty.pdf", ""), PDF},
		{"unknown", write("notes.txt", "hello"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFile(tt.path)
			if err != nil {
				t.Fatalf("DetectFile error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFile() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
