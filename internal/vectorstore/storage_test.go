package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 1}))
}

func TestTopK_StableDescending(t *testing.T) {
	in := []domain.SearchResult{
		{Chunk: domain.Chunk{ID: "a"}, Score: 0.1},
		{Chunk: domain.Chunk{ID: "b"}, Score: 0.9},
		{Chunk: domain.Chunk{ID: "c"}, Score: 0.1},
	}

	out := TopK(in, 2)

	assert.Equal(t, "b", out[0].Chunk.ID)
	assert.Equal(t, "a", out[1].Chunk.ID)
}

func TestMatches(t *testing.T) {
	c := domain.Chunk{SourceDocument: "a.pdf"}
	assert.True(t, Matches(c, nil))
	assert.True(t, Matches(c, &domain.SearchFilter{SourceDocument: "a.pdf"}))
	assert.False(t, Matches(c, &domain.SearchFilter{SourceDocument: "b.pdf"}))
}
