package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const memoStext = `{"pages":[{"width":612,"height":792,"blocks":[
 {"type":"text","bbox":{"x":72,"y":50,"w":300,"h":30},"lines":[{"bbox":{"x":72,"y":50,"w":300,"h":30},"font":{"size":22},"text":"Staff Memo"}]},
 {"type":"text","bbox":{"x":72,"y":400,"w":300,"h":20},"lines":[{"bbox":{"x":72,"y":400,"w":300,"h":20},"font":{"size":15},"text":"Parking Changes"}]},
 {"type":"text","bbox":{"x":72,"y":430,"w":400,"h":14},"lines":[{"bbox":{"x":72,"y":430,"w":400,"h":14},"font":{"size":10},"text":"The north lot closes for resurfacing next week."}]}
]}]}`

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		extractFormat = ""
		extractVerbose = false
		configForce = false
		cfgFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "outliner.yaml")
	content := "input_dir: " + filepath.Join(dir, "in") + "\n" +
		"output_dir: " + filepath.Join(dir, "out") + "\n" +
		"log:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	input := filepath.Join(dir, "memo.json")
	if err := os.WriteFile(input, []byte(memoStext), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "extract", input, "--config", cfg, "--format", "markdown")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	want := "# Staff Memo\n\n- Parking Changes (p. 0)\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "in"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "in", "memo.json"), []byte(memoStext), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "run", "--config", cfg, "--workers", "1"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "memo.json"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.Contains(string(data), `"title": "Staff Memo"`) {
		t.Errorf("unexpected output:\n%s", data)
	}
}

func TestRunCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "in"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "in", "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "run", "--config", cfg); err == nil {
		t.Error("expected an error when a document fails")
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outliner.yaml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}
