// Package tfidf is the offline embedder: vectors are TF-IDF weights over the
// vocabulary of the partition being indexed.
package tfidf

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/textproc"
)

var (
	errEmptyCorpus = errors.New("tfidf: empty corpus")
	errNoTerms     = errors.New("tfidf: corpus has no indexable words")
	errNotPrepared = errors.New("tfidf: embedder not prepared")
)

// Embedder weights terms with sublinear term frequency and smoothed IDF.
// Terms are accent-folded, so a question typed without accents still hits
// accented document text. One Embedder serves one partition; Prepare
// replaces its vocabulary.
type Embedder struct {
	terms map[string]int
	idf   []float64
}

var _ domain.Embedder = (*Embedder)(nil)

func NewEmbedder() *Embedder { return &Embedder{} }

func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary from the chunk texts of one partition.
func (e *Embedder) Prepare(corpus []string) error {
	e.terms, e.idf = nil, nil
	if len(corpus) == 0 {
		return errEmptyCorpus
	}
	df := map[string]int{}
	for _, text := range corpus {
		for term := range termCounts(text) {
			df[term]++
		}
	}
	if len(df) == 0 {
		return errNoTerms
	}
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(corpus))
	terms := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		terms[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	e.terms, e.idf = terms, idf
	return nil
}

func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed returns the L2-normalised vector of text. Text sharing no term with
// the vocabulary embeds to the zero vector, which the index treats as a cue
// for lexical ranking.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.terms == nil {
		return nil, errNotPrepared
	}
	vec := make([]float64, len(e.idf))
	var norm float64
	for term, count := range termCounts(text) {
		i, ok := e.terms[term]
		if !ok {
			continue
		}
		w := (1 + math.Log(float64(count))) * e.idf[i]
		vec[i] = w
		norm += w * w
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

func termCounts(text string) map[string]int {
	counts := map[string]int{}
	for _, t := range textproc.Terms(text) {
		counts[t]++
	}
	return counts
}
