package domain

// Page is the text of one extracted page. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// SourceText is everything the chunker needs to know about one document.
type SourceText struct {
	Name      string
	FileIndex int
	Pages     []Page
}

// Chunk is a bounded text segment of one source document, the unit of retrieval.
type Chunk struct {
	ID             string
	Content        string
	SourceDocument string
	PageNumber     int // 0 when unknown
	ChunkIndex     int
	FileIndex      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// SearchFilter restricts a search to one document. A nil filter means unfiltered.
type SearchFilter struct {
	SourceDocument string
}

// DocumentRecord describes one ingested file.
type DocumentRecord struct {
	Name       string
	PageCount  int
	ChunkCount int
	ByteSize   int64
	Preview    string
}

// SkippedFile is a file left out of an ingestion batch.
type SkippedFile struct {
	Name string
	Err  error
}

// IngestResult aggregates one ingestion batch.
type IngestResult struct {
	Documents   []DocumentRecord
	TotalChunks int
	Skipped     []SkippedFile
	Partition   string
	Index       Indexer
}

// TotalPages sums the page counts of all ingested documents.
func (r *IngestResult) TotalPages() int {
	n := 0
	for _, d := range r.Documents {
		n += d.PageCount
	}
	return n
}

// Names returns the ingested document names in ingestion order.
func (r *IngestResult) Names() []string {
	out := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		out[i] = d.Name
	}
	return out
}

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ExcerptLength is the number of runes of chunk content kept in an Attribution.
const ExcerptLength = 200

// Attribution points an answer back at the chunk it was built from.
type Attribution struct {
	SourceDocument string
	PageNumber     int
	Excerpt        string
}

// NewAttribution derives an attribution from a retrieved chunk.
func NewAttribution(c Chunk) Attribution {
	excerpt := []rune(c.Content)
	if len(excerpt) > ExcerptLength {
		excerpt = excerpt[:ExcerptLength]
	}
	return Attribution{
		SourceDocument: c.SourceDocument,
		PageNumber:     c.PageNumber,
		Excerpt:        string(excerpt),
	}
}

// Turn is one entry in the conversation history.
type Turn struct {
	Role         Role
	Content      string
	Attributions []Attribution
}

// RetrievalSet maps each source document to its retrieved chunks.
// Sources keeps first-seen order; each chunk list keeps retrieval order.
type RetrievalSet struct {
	Sources []string
	Chunks  map[string][]Chunk
}

// GroupBySource builds a RetrievalSet from a flat retrieval result.
func GroupBySource(chunks []Chunk) RetrievalSet {
	set := RetrievalSet{Chunks: make(map[string][]Chunk)}
	for _, c := range chunks {
		if _, ok := set.Chunks[c.SourceDocument]; !ok {
			set.Sources = append(set.Sources, c.SourceDocument)
		}
		set.Chunks[c.SourceDocument] = append(set.Chunks[c.SourceDocument], c)
	}
	return set
}

// Attributions flattens the set into attributions, grouped by source.
func (s RetrievalSet) Attributions() []Attribution {
	var out []Attribution
	for _, src := range s.Sources {
		for _, c := range s.Chunks[src] {
			out = append(out, NewAttribution(c))
		}
	}
	return out
}
