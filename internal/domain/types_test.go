package domain

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySource_PreservesFirstSeenOrder(t *testing.T) {
	chunks := []Chunk{
		{SourceDocument: "b.pdf", ChunkIndex: 4},
		{SourceDocument: "a.pdf", ChunkIndex: 0},
		{SourceDocument: "b.pdf", ChunkIndex: 1},
	}

	set := GroupBySource(chunks)

	assert.Equal(t, []string{"b.pdf", "a.pdf"}, set.Sources)
	require.Len(t, set.Chunks["b.pdf"], 2)
	assert.Equal(t, 4, set.Chunks["b.pdf"][0].ChunkIndex)
	assert.Equal(t, 1, set.Chunks["b.pdf"][1].ChunkIndex)
}

func TestNewAttribution_TruncatesExcerpt(t *testing.T) {
	c := Chunk{SourceDocument: "cv.pdf", PageNumber: 2, Content: strings.Repeat("ñ", 300)}

	a := NewAttribution(c)

	assert.Equal(t, "cv.pdf", a.SourceDocument)
	assert.Equal(t, 2, a.PageNumber)
	assert.Equal(t, ExcerptLength, len([]rune(a.Excerpt)))
}

func TestRetrievalSet_Attributions(t *testing.T) {
	set := GroupBySource([]Chunk{
		{SourceDocument: "a", Content: "one"},
		{SourceDocument: "b", Content: "two"},
		{SourceDocument: "a", Content: "three"},
	})

	attrs := set.Attributions()

	require.Len(t, attrs, 3)
	assert.Equal(t, "one", attrs[0].Excerpt)
	assert.Equal(t, "three", attrs[1].Excerpt)
	assert.Equal(t, "two", attrs[2].Excerpt)
}

func TestIngestResult_Totals(t *testing.T) {
	r := &IngestResult{Documents: []DocumentRecord{
		{Name: "a.pdf", PageCount: 3},
		{Name: "b.pdf", PageCount: 4},
	}}

	assert.Equal(t, 7, r.TotalPages())
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, r.Names())
}

func TestTypedErrors_Unwrap(t *testing.T) {
	ext := &ExtractionError{File: "bad.pdf", Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(ext, ErrExtraction))
	assert.True(t, errors.Is(ext, io.ErrUnexpectedEOF))
	assert.Contains(t, ext.Error(), "bad.pdf")

	idx := &IndexError{Op: "embed", Err: io.EOF}
	assert.True(t, errors.Is(idx, ErrIndex))
	assert.False(t, errors.Is(idx, ErrExtraction))
}
