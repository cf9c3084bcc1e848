package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/outliner/model"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{"native", "*reader.NativeRenderer", false},
		{"", "*reader.NativeRenderer", false},
		{"mutool", "*reader.MuPDFRenderer", false},
		{"MuPDF", "*reader.MuPDFRenderer", false},
		{"tesseract", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			r, err := New(tt.kind, DefaultOptions())
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%q) expected error", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.kind, err)
			}
			switch r.(type) {
			case *NativeRenderer:
				if tt.want != "*reader.NativeRenderer" {
					t.Errorf("New(%q) = %T", tt.kind, r)
				}
			case *MuPDFRenderer:
				if tt.want != "*reader.MuPDFRenderer" {
					t.Errorf("New(%q) = %T", tt.kind, r)
				}
			default:
				t.Errorf("New(%q) = %T", tt.kind, r)
			}
		})
	}
}

func TestNewMuPDFOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MutoolPath = "/opt/mupdf/bin/mutool"
	opts.Attempts = 5

	r, err := New(KindMuPDF, opts)
	if err != nil {
		t.Fatal(err)
	}
	m := r.(*MuPDFRenderer)
	if m.Path != "/opt/mupdf/bin/mutool" || m.Attempts != 5 {
		t.Errorf("renderer = %+v", m)
	}
}

func TestForFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	pdfRenderer := RendererFunc(func(ctx context.Context, path string) (*model.Document, error) {
		return &model.Document{Source: "pdf:" + path}, nil
	})

	pdfPath := write("a.pdf", "%PDF-1.7")
	r, err := ForFile(pdfPath, pdfRenderer)
	if err != nil {
		t.Fatalf("ForFile(pdf) error: %v", err)
	}
	doc, _ := r.Render(context.Background(), pdfPath)
	if doc.Source != "pdf:"+pdfPath {
		t.Errorf("pdf not routed to pdf renderer: %q", doc.Source)
	}

	r, err = ForFile(write("b.json", `{"pages":[]}`), pdfRenderer)
	if err != nil {
		t.Fatalf("ForFile(json) error: %v", err)
	}
	if _, ok := r.(StextRenderer); !ok {
		t.Errorf("ForFile(json) = %T, want StextRenderer", r)
	}

	_, err = ForFile(write("c.txt", "plain"), pdfRenderer)
	if !errors.Is(err, ErrUnsupportedFormat) || !errors.Is(err, ErrRender) {
		t.Errorf("ForFile(txt) error = %v", err)
	}
}

func TestDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(sampleStext), 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	pdfRenderer := RendererFunc(func(ctx context.Context, path string) (*model.Document, error) {
		called = true
		return nil, nil
	})

	doc, err := Dispatch(pdfRenderer).Render(context.Background(), path)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if called {
		t.Error("pdf renderer used for stext input")
	}
	if doc.PageCount() != 2 {
		t.Errorf("PageCount = %d, want 2", doc.PageCount())
	}
}

func TestRenderErrorMessage(t *testing.T) {
	err := renderError("/in/a.pdf", "open", errors.New("permission denied"))
	want := "render /in/a.pdf: open: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrRender) {
		t.Error("RenderError does not match ErrRender")
	}
}
