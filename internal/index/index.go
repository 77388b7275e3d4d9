// Package index binds an embedder to a vector store and exposes the
// text-level ingest/search boundary the question answering core uses.
package index

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/textproc"
)

// Destroyer is implemented by stores that can remove their backing partition.
type Destroyer interface {
	Destroy(ctx context.Context) error
}

// Index implements domain.Indexer over one partition.
type Index struct {
	embedder domain.Embedder
	store    domain.VectorStore
	logger   *zap.Logger
	// chunks keeps the ingested corpus for lexical fallback ranking
	chunks []domain.Chunk
}

var _ domain.Indexer = (*Index)(nil)

func New(embedder domain.Embedder, store domain.VectorStore, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{embedder: embedder, store: store, logger: logger}
}

// Ingest embeds and stores chunks, replacing any previous content.
func (x *Index) Ingest(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	if err := x.embedder.Prepare(texts); err != nil {
		return &domain.IndexError{Op: "prepare", Err: err}
	}
	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := x.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return &domain.IndexError{Op: "embed", Err: err}
		}
		vectors[i] = vec
	}
	dim := x.embedder.Dimension()
	if dim == 0 && len(vectors) > 0 {
		dim = len(vectors[0])
	}
	if err := x.store.Init(ctx, dim); err != nil {
		return &domain.IndexError{Op: "init", Err: err}
	}
	if err := x.store.Upsert(ctx, chunks, vectors); err != nil {
		return &domain.IndexError{Op: "upsert", Err: err}
	}
	x.chunks = append([]domain.Chunk(nil), chunks...)
	x.logger.Debug("index built",
		zap.String("embedder", x.embedder.Name()),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", dim))
	return nil
}

// Search returns up to k chunks ranked by similarity to query.
func (x *Index) Search(ctx context.Context, query string, k int, filter *domain.SearchFilter) ([]domain.Chunk, error) {
	vec, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if isZero(vec) {
		return x.lexicalSearch(query, k, filter), nil
	}
	res, err := x.store.Search(ctx, vec, k, filter)
	if err != nil {
		return nil, err
	}
	allZero := true
	for _, r := range res {
		if r.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero && len(x.chunks) > 0 {
		return x.lexicalSearch(query, k, filter), nil
	}
	out := make([]domain.Chunk, len(res))
	for i, r := range res {
		out[i] = r.Chunk
	}
	return out, nil
}

// ListSources enumerates the indexed documents in ingestion order.
func (x *Index) ListSources(ctx context.Context) ([]string, error) {
	return x.store.Sources(ctx)
}

// Drop destroys the partition backing this index.
func (x *Index) Drop(ctx context.Context) error {
	x.chunks = nil
	if d, ok := x.store.(Destroyer); ok {
		return d.Destroy(ctx)
	}
	if err := x.store.Clear(ctx); err != nil {
		return err
	}
	return x.store.Close()
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func (x *Index) lexicalSearch(query string, k int, filter *domain.SearchFilter) []domain.Chunk {
	qset := toTokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	var scores []pair
	for i, ch := range x.chunks {
		if filter != nil && ch.SourceDocument != filter.SourceDocument {
			continue
		}
		scores = append(scores, pair{i, overlapOchiai(qset, ch.Content)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if k <= 0 {
		k = 5
	}
	if k > len(scores) {
		k = len(scores)
	}
	out := make([]domain.Chunk, 0, k)
	for _, p := range scores[:k] {
		out = append(out, x.chunks[p.idx])
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := textproc.Terms(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai scores |A∩B| / sqrt(|A||B|) over distinct tokens.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	stoks := textproc.Terms(text)
	seen := make(map[string]struct{}, len(stoks))
	inter := 0
	for _, t := range stoks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}
