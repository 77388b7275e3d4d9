package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

func threePageDoc() domain.SourceText {
	return domain.SourceText{
		Name:      "report.pdf",
		FileIndex: 2,
		Pages: []domain.Page{
			{Number: 1, Text: strings.Repeat("a", 1000)},
			{Number: 2, Text: strings.Repeat("b", 1000)},
			{Number: 3, Text: strings.Repeat("c", 500)},
		},
	}
}

func TestCharChunker_ThreePages2500Runes(t *testing.T) {
	ch := NewCharChunker(1000, 200)

	chunks, err := ch.Chunk(threePageDoc())
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		cur := []rune(chunks[i].Content)
		assert.Equal(t, string(prev[len(prev)-200:]), string(cur[:200]), "chunk %d overlap", i)
	}
	assert.Len(t, []rune(chunks[2].Content), 900)
}

func TestCharChunker_TagsChunks(t *testing.T) {
	chunks, err := NewCharChunker(1000, 200).Chunk(threePageDoc())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i, c := range chunks {
		assert.Equal(t, "report.pdf", c.SourceDocument)
		assert.Equal(t, 2, c.FileIndex)
		assert.Equal(t, i, c.ChunkIndex)
		assert.LessOrEqual(t, len([]rune(c.Content)), 1000)
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
		assert.False(t, seen[c.ID], "duplicate id")
		seen[c.ID] = true
	}
	assert.Equal(t, []int{1, 1, 2}, []int{chunks[0].PageNumber, chunks[1].PageNumber, chunks[2].PageNumber})
}

func TestCharChunker_Empty(t *testing.T) {
	chunks, err := NewCharChunker(0, 0).Chunk(domain.SourceText{Name: "empty.pdf"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCharChunker_SkipsBlankWindows(t *testing.T) {
	doc := domain.SourceText{Name: "gap.pdf", Pages: []domain.Page{
		{Number: 1, Text: "head" + strings.Repeat(" ", 28)},
		{Number: 2, Text: "tail"},
	}}

	chunks, err := NewCharChunker(10, 2).Chunk(doc)
	require.NoError(t, err)
	for i, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
		assert.Equal(t, i, c.ChunkIndex)
	}
	assert.Equal(t, 2, chunks[len(chunks)-1].PageNumber)
}

func TestCharChunker_MultibyteRunes(t *testing.T) {
	doc := domain.SourceText{Name: "es.pdf", Pages: []domain.Page{{Number: 1, Text: strings.Repeat("ñ", 25)}}}

	chunks, err := NewCharChunker(10, 5).Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 10)
	}
}

func TestNewCharChunker_ClampsOverlap(t *testing.T) {
	c := NewCharChunker(100, 150)
	assert.Equal(t, 25, c.overlap)
}

func TestChunkID_Stable(t *testing.T) {
	assert.Equal(t, ChunkID("a.pdf", 1), ChunkID("a.pdf", 1))
	assert.NotEqual(t, ChunkID("a.pdf", 1), ChunkID("b.pdf", 1))
}
