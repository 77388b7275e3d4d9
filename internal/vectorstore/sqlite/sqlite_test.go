package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

func seeded(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), "index_test_1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx,
		[]domain.Chunk{
			{ID: "1", SourceDocument: "b.pdf", Content: "first", PageNumber: 1},
			{ID: "2", SourceDocument: "a.pdf", Content: "second", ChunkIndex: 0},
			{ID: "3", SourceDocument: "b.pdf", Content: "third", ChunkIndex: 1},
		},
		[][]float64{{1, 0}, {0, 1}, {0.5, 0.5}},
	))
	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	s := seeded(t)

	res, err := s.Search(context.Background(), []float64{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "1", res[0].Chunk.ID)
	assert.Equal(t, "first", res[0].Chunk.Content)
	assert.Equal(t, 1, res[0].Chunk.PageNumber)
	assert.InDelta(t, 1.0, res[0].Score, 1e-6)
}

func TestStorage_Filter(t *testing.T) {
	res, err := seeded(t).Search(context.Background(), []float64{1, 0}, 10, &domain.SearchFilter{SourceDocument: "a.pdf"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "a.pdf", res[0].Chunk.SourceDocument)
}

func TestStorage_SourcesOrder(t *testing.T) {
	srcs, err := seeded(t).Sources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf", "a.pdf"}, srcs)
}

func TestStorage_ReopenKeepsDimension(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "p")
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background(), 3))
	require.NoError(t, s.Close())

	s2, err := Open(dir, "p")
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, 3, s2.dimension)
}

func TestStorage_Destroy(t *testing.T) {
	s, err := Open(t.TempDir(), "gone")
	require.NoError(t, err)
	path := s.Path()

	require.NoError(t, s.Destroy(context.Background()))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestVectorEncoding(t *testing.T) {
	in := []float64{0.25, -1, 3.5}
	assert.Equal(t, in, decodeVector(encodeVector(in)))
}
