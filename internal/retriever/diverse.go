// Package retriever selects context chunks so that every loaded document is
// represented, instead of only the globally most similar chunks.
package retriever

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

const (
	DefaultKPerDoc   = 5
	DefaultFallbackK = 25
)

// Diverse runs one filtered search per source document.
type Diverse struct {
	kPerDoc   int
	fallbackK int
	logger    *zap.Logger
}

func NewDiverse(kPerDoc, fallbackK int, logger *zap.Logger) *Diverse {
	if kPerDoc <= 0 {
		kPerDoc = DefaultKPerDoc
	}
	if fallbackK <= 0 {
		fallbackK = DefaultFallbackK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diverse{kPerDoc: kPerDoc, fallbackK: fallbackK, logger: logger}
}

// Retrieve returns up to kPerDoc chunks for each source in enumeration order.
// A source whose filtered search fails is served from a single unfiltered
// search shared by the whole call; if that fails too the source is skipped.
// When sources cannot be enumerated, one unfiltered search is returned
// instead, and its failure is reported as domain.ErrRetrieval.
func (d *Diverse) Retrieve(ctx context.Context, idx domain.Indexer, question string) ([]domain.Chunk, error) {
	sources, err := idx.ListSources(ctx)
	if err != nil {
		d.logger.Warn("listing sources failed, using unfiltered search", zap.Error(err))
		chunks, err := idx.Search(ctx, question, d.fallbackK, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
		}
		return chunks, nil
	}
	d.logger.Debug("sources found", zap.Int("count", len(sources)), zap.Strings("sources", sources))

	fb := &fallback{search: func() ([]domain.Chunk, error) {
		return idx.Search(ctx, question, d.fallbackK, nil)
	}}
	var out []domain.Chunk
	for _, src := range sources {
		chunks, err := idx.Search(ctx, question, d.kPerDoc, &domain.SearchFilter{SourceDocument: src})
		if err != nil {
			d.logger.Warn("filtered search failed, using fallback", zap.String("source", src), zap.Error(err))
			chunks, err = fb.forSource(src, d.kPerDoc)
			if err != nil {
				d.logger.Error("source skipped", zap.String("source", src), zap.Error(err))
				continue
			}
		}
		d.logger.Debug("chunks retrieved", zap.String("source", src), zap.Int("chunks", len(chunks)))
		out = append(out, chunks...)
	}
	return out, nil
}

// fallback memoises one unfiltered search per Retrieve call.
type fallback struct {
	search func() ([]domain.Chunk, error)
	done   bool
	chunks []domain.Chunk
	err    error
}

func (f *fallback) forSource(src string, k int) ([]domain.Chunk, error) {
	if !f.done {
		f.chunks, f.err = f.search()
		f.done = true
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Chunk
	for _, c := range f.chunks {
		if c.SourceDocument != src {
			continue
		}
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
