// Package ingest turns a batch of PDF files into an index partition.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

const (
	DefaultMaxFiles         = 5
	DefaultPreviewSentences = 3
	previewRunes            = 300
)

var (
	errNoText        = errors.New("no extractable text")
	errDuplicateName = errors.New("a document with the same name is already in this batch")
)

// Ingestor extracts, chunks and indexes one batch of files.
type Ingestor struct {
	extractor        domain.Extractor
	chunker          domain.Chunker
	summarizer       domain.Summarizer
	maxFiles         int
	previewSentences int
	logger           *zap.Logger
}

type Option func(*Ingestor)

func WithMaxFiles(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.maxFiles = n
		}
	}
}

func WithPreviewSentences(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.previewSentences = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(i *Ingestor) {
		if l != nil {
			i.logger = l
		}
	}
}

// New builds an Ingestor. summarizer may be nil, in which case records carry no preview.
func New(extractor domain.Extractor, chunker domain.Chunker, summarizer domain.Summarizer, opts ...Option) *Ingestor {
	i := &Ingestor{
		extractor:        extractor,
		chunker:          chunker,
		summarizer:       summarizer,
		maxFiles:         DefaultMaxFiles,
		previewSentences: DefaultPreviewSentences,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// MaxFiles is the largest batch Run accepts.
func (i *Ingestor) MaxFiles() int { return i.maxFiles }

// Run ingests files into idx, replacing its content. Files that cannot be
// read are reported in Skipped and the batch continues. Documents are keyed
// by base name, so a later file sharing a name with an earlier one is
// skipped too. It fails with
// domain.ErrNoDocuments when nothing usable remains, and with a
// *domain.IndexError when indexing fails.
func (i *Ingestor) Run(ctx context.Context, files []string, idx domain.Indexer) (*domain.IngestResult, error) {
	if len(files) > i.maxFiles {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", domain.ErrTooManyFiles, len(files), i.maxFiles)
	}

	result := &domain.IngestResult{}
	var all []domain.Chunk
	seen := make(map[string]struct{}, len(files))
	for pos, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		var (
			rec    domain.DocumentRecord
			chunks []domain.Chunk
			err    error
		)
		if _, dup := seen[name]; dup {
			err = &domain.ExtractionError{File: name, Err: errDuplicateName}
		} else {
			rec, chunks, err = i.processFile(path, pos)
		}
		if err != nil {
			i.logger.Warn("skipping file", zap.String("file", path), zap.Error(err))
			result.Skipped = append(result.Skipped, domain.SkippedFile{Name: name, Err: err})
			continue
		}
		seen[name] = struct{}{}
		i.logger.Debug("file processed",
			zap.String("file", rec.Name),
			zap.Int("pages", rec.PageCount),
			zap.Int("chunks", rec.ChunkCount))
		result.Documents = append(result.Documents, rec)
		all = append(all, chunks...)
	}
	if len(all) == 0 {
		return result, domain.ErrNoDocuments
	}

	if err := idx.Ingest(ctx, all); err != nil {
		return result, err
	}
	result.TotalChunks = len(all)
	result.Index = idx
	i.logger.Info("ingestion complete",
		zap.Int("documents", len(result.Documents)),
		zap.Int("chunks", result.TotalChunks),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (i *Ingestor) processFile(path string, pos int) (domain.DocumentRecord, []domain.Chunk, error) {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.DocumentRecord{}, nil, &domain.ExtractionError{File: name, Err: errors.New("not a PDF file")}
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.DocumentRecord{}, nil, &domain.ExtractionError{File: name, Err: err}
	}
	pages, err := i.extractor.Extract(path)
	if err != nil {
		return domain.DocumentRecord{}, nil, err
	}
	chunks, err := i.chunker.Chunk(domain.SourceText{Name: name, FileIndex: pos, Pages: pages})
	if err != nil {
		return domain.DocumentRecord{}, nil, &domain.ExtractionError{File: name, Err: err}
	}
	if len(chunks) == 0 {
		return domain.DocumentRecord{}, nil, &domain.ExtractionError{File: name, Err: errNoText}
	}
	return domain.DocumentRecord{
		Name:       name,
		PageCount:  len(pages),
		ChunkCount: len(chunks),
		ByteSize:   info.Size(),
		Preview:    i.preview(pages),
	}, chunks, nil
}

func (i *Ingestor) preview(pages []domain.Page) string {
	if i.summarizer == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	summary, err := i.summarizer.Summarize(sb.String(), i.previewSentences)
	if err != nil {
		i.logger.Debug("preview failed", zap.Error(err))
		return ""
	}
	if r := []rune(summary); len(r) > previewRunes {
		summary = string(r[:previewRunes]) + "..."
	}
	return summary
}
