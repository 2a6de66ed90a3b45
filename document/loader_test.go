package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTextFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "primeiro")
	b := writeFile(t, dir, "b.md", "# segundo")

	pages, err := Load([]string{a, b}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].Source != a || pages[0].Text != "primeiro" || pages[0].Number != 1 {
		t.Errorf("page 0 = %+v", pages[0])
	}
	if pages[1].Text != "# segundo" {
		t.Errorf("page 1 = %+v", pages[1])
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.txt", "texto")
	bogusPDF := writeFile(t, dir, "broken.pdf", "not a pdf at all")
	unsupported := writeFile(t, dir, "sheet.xlsx", "x")

	tests := []struct {
		name  string
		paths []string
		bad   string
	}{
		{"missing file", []string{good, filepath.Join(dir, "Base.pdf")}, filepath.Join(dir, "Base.pdf")},
		{"malformed pdf", []string{bogusPDF}, bogusPDF},
		{"unsupported extension", []string{unsupported}, unsupported},
		{"directory", []string{dir}, dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Load(tt.paths, nil)
			if pages != nil {
				t.Errorf("expected no pages on failure, got %d", len(pages))
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if loadErr.Path != tt.bad {
				t.Errorf("Path = %q, want %q", loadErr.Path, tt.bad)
			}
		})
	}
}

func TestLoadSkipsRepeatedPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "primeiro")
	b := writeFile(t, dir, "b.txt", "segundo")

	var loaded []string
	pages, err := Load([]string{a, b, a, filepath.Join(dir, ".", "a.txt")}, func(path string, n int) {
		loaded = append(loaded, filepath.Base(path))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if len(loaded) != 2 || loaded[0] != "a.txt" || loaded[1] != "b.txt" {
		t.Errorf("loaded = %q", loaded)
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}
