package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// stubIndex answers filtered searches from perSource and unfiltered ones from global.
type stubIndex struct {
	sources     []string
	sourcesErr  error
	perSource   map[string][]domain.Chunk
	failSources map[string]bool
	global      []domain.Chunk
	globalErr   error

	filtered   []string
	unfiltered int
}

func (s *stubIndex) Ingest(context.Context, []domain.Chunk) error { return nil }
func (s *stubIndex) Drop(context.Context) error                    { return nil }

func (s *stubIndex) ListSources(context.Context) ([]string, error) {
	return s.sources, s.sourcesErr
}

func (s *stubIndex) Search(_ context.Context, _ string, k int, f *domain.SearchFilter) ([]domain.Chunk, error) {
	if f == nil {
		s.unfiltered++
		if s.globalErr != nil {
			return nil, s.globalErr
		}
		if k < len(s.global) {
			return s.global[:k], nil
		}
		return s.global, nil
	}
	s.filtered = append(s.filtered, f.SourceDocument)
	if s.failSources[f.SourceDocument] {
		return nil, errors.New("filter unsupported")
	}
	hits := s.perSource[f.SourceDocument]
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func chunksOf(src string, n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{SourceDocument: src, ChunkIndex: i, Content: fmt.Sprintf("%s-%d", src, i)}
	}
	return out
}

func countBySource(chunks []domain.Chunk) map[string]int {
	m := map[string]int{}
	for _, c := range chunks {
		m[c.SourceDocument]++
	}
	return m
}

func TestDiverse_EveryDocumentRepresented(t *testing.T) {
	idx := &stubIndex{
		sources: []string{"cv.pdf", "schedule.pdf", "risk.pdf"},
		perSource: map[string][]domain.Chunk{
			"cv.pdf":       chunksOf("cv.pdf", 9),
			"schedule.pdf": chunksOf("schedule.pdf", 2),
			"risk.pdf":     chunksOf("risk.pdf", 6),
		},
	}

	got, err := NewDiverse(0, 0, nil).Retrieve(context.Background(), idx, "python experience")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cv.pdf": 5, "schedule.pdf": 2, "risk.pdf": 5}, countBySource(got))
	assert.Equal(t, "cv.pdf", got[0].SourceDocument)
	assert.Equal(t, "risk.pdf", got[len(got)-1].SourceDocument)
	assert.Zero(t, idx.unfiltered)
}

func TestDiverse_SourceWithNoHitsContributesNothing(t *testing.T) {
	idx := &stubIndex{
		sources:   []string{"a.pdf", "b.pdf"},
		perSource: map[string][]domain.Chunk{"b.pdf": chunksOf("b.pdf", 1)},
	}

	got, err := NewDiverse(3, 10, nil).Retrieve(context.Background(), idx, "q")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b.pdf": 1}, countBySource(got))
}

func TestDiverse_FailedSourceUsesSharedFallback(t *testing.T) {
	global := append(chunksOf("a.pdf", 4), chunksOf("b.pdf", 7)...)
	idx := &stubIndex{
		sources:     []string{"a.pdf", "b.pdf", "c.pdf"},
		perSource:   map[string][]domain.Chunk{"c.pdf": chunksOf("c.pdf", 2)},
		failSources: map[string]bool{"a.pdf": true, "b.pdf": true},
		global:      global,
	}

	got, err := NewDiverse(5, 25, nil).Retrieve(context.Background(), idx, "q")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a.pdf": 4, "b.pdf": 5, "c.pdf": 2}, countBySource(got))
	assert.Equal(t, 1, idx.unfiltered)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, idx.filtered)
}

func TestDiverse_FailureIsolatedToOneSource(t *testing.T) {
	idx := &stubIndex{
		sources:     []string{"a.pdf", "b.pdf"},
		perSource:   map[string][]domain.Chunk{"b.pdf": chunksOf("b.pdf", 2)},
		failSources: map[string]bool{"a.pdf": true},
		globalErr:   errors.New("store offline"),
	}

	got, err := NewDiverse(5, 25, nil).Retrieve(context.Background(), idx, "q")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b.pdf": 2}, countBySource(got))
}

func TestDiverse_EnumerationFailureFallsBackToUnfiltered(t *testing.T) {
	idx := &stubIndex{
		sourcesErr: errors.New("scroll failed"),
		global:     chunksOf("a.pdf", 30),
	}

	got, err := NewDiverse(5, 25, nil).Retrieve(context.Background(), idx, "q")

	require.NoError(t, err)
	assert.Len(t, got, 25)
	assert.Empty(t, idx.filtered)
}

func TestDiverse_EnumerationAndFallbackFailure(t *testing.T) {
	idx := &stubIndex{
		sourcesErr: errors.New("scroll failed"),
		globalErr:  errors.New("429 quota exceeded"),
	}

	_, err := NewDiverse(5, 25, nil).Retrieve(context.Background(), idx, "q")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrieval)
	assert.Contains(t, err.Error(), "429 quota exceeded")
}

func TestDiverse_ZeroSources(t *testing.T) {
	got, err := NewDiverse(5, 25, nil).Retrieve(context.Background(), &stubIndex{}, "q")

	require.NoError(t, err)
	assert.Empty(t, got)
}
