package vectorstore

import (
	"math"
	"sort"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// Storage persists vectors and supports filtered similarity search.
type Storage = domain.VectorStore

// Cosine returns the cosine similarity of a and b, 0 when either is a zero vector.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Matches reports whether c passes filter.
func Matches(c domain.Chunk, filter *domain.SearchFilter) bool {
	return filter == nil || c.SourceDocument == filter.SourceDocument
}

// TopK ranks results by descending score and keeps at most k. Ties keep input order.
func TopK(results []domain.SearchResult, k int) []domain.SearchResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
