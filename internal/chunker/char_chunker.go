package chunker

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// CharChunker splits a document into fixed-size rune windows with overlap.
// Pages are concatenated before splitting so windows may cross page breaks,
// never document boundaries.
type CharChunker struct {
	size    int
	overlap int
}

func NewCharChunker(size, overlap int) *CharChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &CharChunker{size: size, overlap: overlap}
}

func (c *CharChunker) Chunk(doc domain.SourceText) ([]domain.Chunk, error) {
	var (
		text      []rune
		pageStart []int // rune offset where each page begins
	)
	for _, p := range doc.Pages {
		pageStart = append(pageStart, len(text))
		text = append(text, []rune(p.Text)...)
	}
	if len(text) == 0 {
		return nil, nil
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk
	idx := 0
	for start := 0; start < len(text); start += step {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		content := string(text[start:end])
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, domain.Chunk{
				ID:             ChunkID(doc.Name, idx),
				Content:        content,
				SourceDocument: doc.Name,
				PageNumber:     pageAt(doc.Pages, pageStart, start),
				ChunkIndex:     idx,
				FileIndex:      doc.FileIndex,
			})
			idx++
		}
		if end == len(text) {
			break
		}
	}
	return chunks, nil
}

// ChunkID is a stable identifier for the idx-th chunk of a source.
func ChunkID(source string, idx int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+":"+strconv.Itoa(idx))).String()
}

func pageAt(pages []domain.Page, pageStart []int, offset int) int {
	num := 0
	for i, s := range pageStart {
		if s > offset {
			break
		}
		// empty pages share an offset with the next one; the later page wins
		num = pages[i].Number
	}
	return num
}
