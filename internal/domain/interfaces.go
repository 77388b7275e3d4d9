package domain

import "context"

// Chunker splits the extracted text of one document into retrieval chunks.
type Chunker interface {
	Chunk(doc SourceText) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists vectors and supports filtered similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int, filter *SearchFilter) ([]SearchResult, error)
	Sources(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Indexer is the embed-and-store boundary the question answering core talks to.
// Ingest replaces whatever the index held before.
type Indexer interface {
	Ingest(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, query string, k int, filter *SearchFilter) ([]Chunk, error)
	ListSources(ctx context.Context) ([]string, error)
	Drop(ctx context.Context) error
}

// Extractor pulls per-page text out of a document file.
type Extractor interface {
	Extract(path string) ([]Page, error)
}

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
