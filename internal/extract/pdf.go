// Package extract reads per-page text out of PDF files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// PDF extracts plain text page by page. Pages that fail to decode are kept
// with empty text so page numbers stay aligned with the file.
type PDF struct {
	logger *zap.Logger
}

var _ domain.Extractor = (*PDF)(nil)

func NewPDF(logger *zap.Logger) *PDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDF{logger: logger}
}

// Extract returns one Page per page of the file. Any failure to open or parse
// the document is a *domain.ExtractionError.
func (p *PDF) Extract(path string) (pages []domain.Page, err error) {
	name := filepath.Base(path)
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &domain.ExtractionError{File: name, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ExtractionError{File: name, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &domain.ExtractionError{File: name, Err: err}
	}
	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, &domain.ExtractionError{File: name, Err: err}
	}

	n := reader.NumPage()
	if n == 0 {
		return nil, &domain.ExtractionError{File: name, Err: errors.New("document has no pages")}
	}
	pages = make([]domain.Page, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("failed to extract page text",
				zap.String("file", name), zap.Int("page", i), zap.Error(err))
			text = ""
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}
	p.logger.Debug("extracted pdf", zap.String("file", name), zap.Int("pages", n))
	return pages, nil
}
