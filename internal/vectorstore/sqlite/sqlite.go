// Package sqlite stores one index partition in its own SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore"
)

// Extension is the file suffix of a partition database.
const Extension = ".db"

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	id              TEXT PRIMARY KEY,
	source_document TEXT NOT NULL,
	page_number     INTEGER NOT NULL,
	chunk_index     INTEGER NOT NULL,
	file_index      INTEGER NOT NULL,
	content         TEXT NOT NULL,
	vector          BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_document);
`

// Storage is a brute-force cosine store persisted in a single SQLite file.
type Storage struct {
	db        *sql.DB
	path      string
	dimension int
}

// Open creates or opens the partition database at dir/name.db.
func Open(dir, name string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(dir, name+Extension)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	s := &Storage{db: db, path: path}
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'dimension'`).Scan(&s.dimension); err != nil && !errors.Is(err, sql.ErrNoRows) {
		db.Close()
		return nil, fmt.Errorf("reading dimension: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Storage) Path() string { return s.path }

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('dimension', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		dimension); err != nil {
		return fmt.Errorf("storing dimension: %w", err)
	}
	s.dimension = dimension
	return nil
}

func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO chunks
		(id, source_document, page_number, chunk_index, file_index, content, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.SourceDocument, c.PageNumber, c.ChunkIndex, c.FileIndex, c.Content, encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int, filter *domain.SearchFilter) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	query := `SELECT id, source_document, page_number, chunk_index, file_index, content, vector FROM chunks`
	var args []any
	if filter != nil {
		query += ` WHERE source_document = ?`
		args = append(args, filter.SourceDocument)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			c    domain.Chunk
			blob []byte
		)
		if err := rows.Scan(&c.ID, &c.SourceDocument, &c.PageNumber, &c.ChunkIndex, &c.FileIndex, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		results = append(results, domain.SearchResult{Chunk: c, Score: vectorstore.Cosine(decodeVector(blob), vector)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vectorstore.TopK(results, topK), nil
}

func (s *Storage) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_document FROM chunks GROUP BY source_document ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

func (s *Storage) Close() error { return s.db.Close() }

// Destroy closes the database and removes its files.
func (s *Storage) Destroy(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return err
	}
	return Remove(s.path)
}

// Remove deletes a partition database together with its WAL side files.
func Remove(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return buf
}

func decodeVector(data []byte) []float64 {
	out := make([]float64, len(data)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return out
}
