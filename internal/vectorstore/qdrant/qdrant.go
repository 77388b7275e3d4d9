package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// Storage is a minimal REST client to Qdrant bound to one collection.
// It assumes cosine distance and recreates the collection on Init.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	if err := s.DeleteCollection(ctx, s.collection); err != nil {
		return err
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(s.collection), body, nil)
}

func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		points[i] = map[string]any{
			"id":     c.ID,
			"vector": vectors[i],
			"payload": map[string]any{
				"source_document": c.SourceDocument,
				"page_number":     c.PageNumber,
				"chunk_index":     c.ChunkIndex,
				"file_index":      c.FileIndex,
				"content":         c.Content,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPut, s.collectionURL(s.collection)+"/points?wait=true", body, nil)
}

type payload struct {
	SourceDocument string `json:"source_document"`
	PageNumber     int    `json:"page_number"`
	ChunkIndex     int    `json:"chunk_index"`
	FileIndex      int    `json:"file_index"`
	Content        string `json:"content"`
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int, filter *domain.SearchFilter) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if filter != nil {
		req["filter"] = sourceFilter(filter.SourceDocument)
	}
	var resp struct {
		Result []struct {
			ID      any     `json:"id"`
			Score   float64 `json:"score"`
			Payload payload `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL(s.collection)+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:             fmt.Sprint(r.ID),
				Content:        r.Payload.Content,
				SourceDocument: r.Payload.SourceDocument,
				PageNumber:     r.Payload.PageNumber,
				ChunkIndex:     r.Payload.ChunkIndex,
				FileIndex:      r.Payload.FileIndex,
			},
			Score: r.Score,
		})
	}
	return results, nil
}

// Sources scrolls the collection payloads and returns distinct documents in file order.
func (s *Storage) Sources(ctx context.Context) ([]string, error) {
	firstIndex := map[string]int{}
	var offset any
	for {
		req := map[string]any{
			"limit":        256,
			"with_payload": []string{"source_document", "file_index"},
			"with_vector":  false,
		}
		if offset != nil {
			req["offset"] = offset
		}
		var resp struct {
			Result struct {
				Points []struct {
					Payload payload `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodPost, s.collectionURL(s.collection)+"/points/scroll", req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Result.Points {
			src := p.Payload.SourceDocument
			if idx, ok := firstIndex[src]; !ok || p.Payload.FileIndex < idx {
				firstIndex[src] = p.Payload.FileIndex
			}
		}
		if resp.Result.NextPageOffset == nil {
			break
		}
		offset = resp.Result.NextPageOffset
	}
	out := make([]string, 0, len(firstIndex))
	for src := range firstIndex {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if firstIndex[out[i]] != firstIndex[out[j]] {
			return firstIndex[out[i]] < firstIndex[out[j]]
		}
		return out[i] < out[j]
	})
	return out, nil
}

// Clear drops every point by deleting the bound collection.
func (s *Storage) Clear(ctx context.Context) error {
	return s.DeleteCollection(ctx, s.collection)
}

func (s *Storage) Close() error { return nil }

// Destroy removes the bound collection.
func (s *Storage) Destroy(ctx context.Context) error {
	return s.DeleteCollection(ctx, s.collection)
}

// ListCollections returns the names of every collection on the server.
func (s *Storage) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, s.url+"/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, c := range resp.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

// DeleteCollection drops a collection. A missing collection is not an error.
func (s *Storage) DeleteCollection(ctx context.Context, name string) error {
	err := s.do(ctx, http.MethodDelete, s.collectionURL(name), nil, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *Storage) collectionURL(name string) string {
	return fmt.Sprintf("%s/collections/%s", s.url, name)
}

func sourceFilter(source string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "source_document", "match": map[string]any{"value": source}},
		},
	}
}

type statusError struct {
	method string
	url    string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed (status %d): %s", e.method, e.url, e.code, e.body)
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{method: method, url: url, code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
