package outliner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/reader"
)

func textBlock(index int, text string, size, top float64) model.Block {
	r := model.Rect{X0: 72, Y0: top, X1: 540, Y1: top + size}
	return model.Block{
		Index: index,
		BBox:  r,
		Lines: []model.Line{{BBox: r, Spans: []model.Span{{Text: text, Size: size, BBox: r}}}},
	}
}

// guideDocument has a title, two heading sizes and body text over two pages
func guideDocument() *model.Document {
	return &model.Document{
		Source: "guide.pdf",
		Pages: []model.Page{
			{Index: 0, Width: 612, Height: 800, Blocks: []model.Block{
				textBlock(0, "Birding Field Guide", 28, 60),
				textBlock(1, "Getting Started", 18, 200),
				textBlock(2, "Pick a quiet morning and bring binoculars with you", 11, 240),
				textBlock(3, "Choosing Optics", 14, 300),
				textBlock(4, "Most observers prefer eight power glasses for the field", 11, 330),
			}},
			{Index: 1, Width: 612, Height: 800, Blocks: []model.Block{
				textBlock(0, "Common Species", 18, 80),
				textBlock(1, "Sparrows and finches are the usual visitors at feeders", 11, 120),
			}},
		},
	}
}

func TestFromDocumentOutline(t *testing.T) {
	record, warnings, err := FromDocument(guideDocument()).Outline()
	if err != nil {
		t.Fatalf("Outline error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}

	if record.Title != "Birding Field Guide" {
		t.Errorf("title = %q", record.Title)
	}

	want := []model.HeadingEntry{
		{Level: model.H1, Text: "Getting Started", Page: 0},
		{Level: model.H2, Text: "Choosing Optics", Page: 0},
		{Level: model.H1, Text: "Common Species", Page: 1},
	}
	if len(record.Outline) != len(want) {
		t.Fatalf("outline = %+v, want %+v", record.Outline, want)
	}
	for i := range want {
		if record.Outline[i] != want[i] {
			t.Errorf("outline[%d] = %+v, want %+v", i, record.Outline[i], want[i])
		}
	}
}

func TestFromDocumentAnalysis(t *testing.T) {
	analysis, _, err := FromDocument(guideDocument()).Analysis()
	if err != nil {
		t.Fatal(err)
	}
	if analysis.BodySize != 11 {
		t.Errorf("BodySize = %d, want 11", analysis.BodySize)
	}
	if got := analysis.Levels.Level(18); got != model.H2 {
		t.Errorf("Levels.Level(18) = %v, want H2", got)
	}
	if len(analysis.TitleBlocks) != 1 || analysis.TitleBlocks[0] != (model.BlockID{Page: 0, Block: 0}) {
		t.Errorf("TitleBlocks = %+v", analysis.TitleBlocks)
	}
}

func TestFromDocumentEmpty(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.Document
	}{
		{"nil", nil},
		{"no pages", &model.Document{}},
		{"blank text", &model.Document{Pages: []model.Page{{Height: 800, Blocks: []model.Block{textBlock(0, "   ", 12, 10)}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, warnings, err := FromDocument(tt.doc).Outline()
			if err != nil {
				t.Fatalf("Outline error: %v", err)
			}
			if record.Title != "" || record.Outline == nil || len(record.Outline) != 0 {
				t.Errorf("record = %+v, want empty record", record)
			}
			if !HasWarning(warnings, WarningNoText) {
				t.Errorf("warnings = %v, want no_text", warnings)
			}
		})
	}
}

func TestNoHeadingsWarning(t *testing.T) {
	doc := &model.Document{Pages: []model.Page{{Height: 800, Blocks: []model.Block{
		textBlock(0, "just some ordinary paragraph text here", 11, 700),
	}}}}

	record, warnings, err := FromDocument(doc).Outline()
	if err != nil {
		t.Fatal(err)
	}
	if len(record.Outline) != 0 {
		t.Errorf("outline = %+v", record.Outline)
	}
	if !HasWarning(warnings, WarningNoTitle) || !HasWarning(warnings, WarningNoHeadings) {
		t.Errorf("warnings = %v", warnings)
	}
	if HasWarning(warnings, WarningNoText) {
		t.Error("document has text")
	}
}

func TestConfig(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.TitlePages = 0

	record, _, err := FromDocument(guideDocument()).Config(cfg).Outline()
	if err != nil {
		t.Fatal(err)
	}
	if record.Title != "" {
		t.Errorf("title = %q, want none with TitlePages = 0", record.Title)
	}
	if len(record.Outline) == 0 || record.Outline[0].Text != "Birding Field Guide" {
		t.Errorf("title text should become a heading, got %+v", record.Outline)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.TitleTopFraction = 3

	_, _, err := FromDocument(guideDocument()).Config(cfg).Outline()
	if !errors.Is(err, layout.ErrInvalidConfig) {
		t.Errorf("Outline error = %v, want ErrInvalidConfig", err)
	}
}

func TestChainingIsImmutable(t *testing.T) {
	base := FromDocument(guideDocument())

	cfg := layout.DefaultConfig()
	cfg.TitlePages = 0
	_ = base.Config(cfg)

	record, _, err := base.Outline()
	if err != nil {
		t.Fatal(err)
	}
	if record.Title != "Birding Field Guide" {
		t.Error("Config() modified the receiver")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "nonexistent.pdf")).Outline()
	if !errors.Is(err, reader.ErrRender) {
		t.Errorf("expected render error, got %v", err)
	}
}

func TestOpenNoFilename(t *testing.T) {
	if _, _, err := Open("").Outline(); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestOpenUsesRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotCtx context.Context
	fake := reader.RendererFunc(func(ctx context.Context, p string) (*model.Document, error) {
		gotCtx = ctx
		return guideDocument(), nil
	})

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	record, _, err := Open(path).Renderer(fake).Context(ctx).Outline()
	if err != nil {
		t.Fatal(err)
	}
	if record.Title != "Birding Field Guide" {
		t.Errorf("title = %q", record.Title)
	}
	if gotCtx == nil || gotCtx.Value(key{}) != "marker" {
		t.Error("renderer did not receive the configured context")
	}
}

func TestOpenStext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	stext := `{"pages":[{"width":612,"height":792,"blocks":[
 {"type":"text","bbox":{"x":72,"y":50,"w":300,"h":30},"lines":[{"bbox":{"x":72,"y":50,"w":300,"h":30},"font":{"size":22},"text":"Staff Memo"}]},
 {"type":"text","bbox":{"x":72,"y":400,"w":300,"h":20},"lines":[{"bbox":{"x":72,"y":400,"w":300,"h":20},"font":{"size":15},"text":"Parking Changes"}]},
 {"type":"text","bbox":{"x":72,"y":430,"w":400,"h":14},"lines":[{"bbox":{"x":72,"y":430,"w":400,"h":14},"font":{"size":10},"text":"The north lot closes for resurfacing next week."}]}
]}]}`
	if err := os.WriteFile(path, []byte(stext), 0o644); err != nil {
		t.Fatal(err)
	}

	failing := reader.RendererFunc(func(ctx context.Context, p string) (*model.Document, error) {
		return nil, errors.New("pdf renderer should not be used")
	})

	record := MustOutline(Open(path).Renderer(failing).Outline())
	if record.Title != "Staff Memo" {
		t.Errorf("title = %q", record.Title)
	}
	if len(record.Outline) != 1 || record.Outline[0].Text != "Parking Changes" || record.Outline[0].Level != model.H1 {
		t.Errorf("outline = %+v", record.Outline)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must = %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Code: WarningNoTitle, Message: "a.pdf: no title"},
		{Code: WarningNoHeadings, Message: "a.pdf: no headings"},
	}
	got := FormatWarnings(warnings)
	if got != "a.pdf: no title; a.pdf: no headings" {
		t.Errorf("FormatWarnings = %q", got)
	}
	if FormatWarnings(nil) != "" {
		t.Error("FormatWarnings(nil) should be empty")
	}
	if !strings.Contains(warnings[0].String(), "no title") {
		t.Error("String() should return the message")
	}
}
