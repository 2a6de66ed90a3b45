package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one page of a source document. Plain text
// files are a single page.
type Page struct {
	Source string
	Number int // 1-based
	Text   string
}

// Load reads every path in order. A path listed again is read only once,
// so its chunks are not stored twice. onFile, when set, is called after each
// file is read. The first failure aborts the whole load.
func Load(paths []string, onFile func(path string, pages int)) ([]Page, error) {
	var pages []Page
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if seen[key] {
			continue
		}
		seen[key] = true

		pp, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, pp...)
		if onFile != nil {
			onFile(p, len(pp))
		}
	}
	return pages, nil
}

// LoadFile extracts the pages of a single .pdf, .txt or .md file.
func LoadFile(path string) ([]Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: errors.New("is a directory")}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return []Page{{Source: path, Number: 1, Text: string(data)}}, nil
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
}

func loadPDF(path string) (pages []Page, err error) {
	// The pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &LoadError{Path: path, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{Source: path, Number: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = append(pages, Page{Source: path, Number: i, Text: text})
	}
	return pages, nil
}
