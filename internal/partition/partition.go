// Package partition names index partitions after the credential that built
// them and sweeps partitions left behind by other credentials.
package partition

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Prefix starts every partition name.
const Prefix = "index_"

const hashLen = 16

// Hash returns the credential hash used to key partitions.
func Hash(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// Name builds a partition name unique to one ingestion batch.
func Name(hash string, at time.Time) string {
	return fmt.Sprintf("%s%s_%d", Prefix, hash, at.UnixNano())
}

// HashOf extracts the credential hash from a partition name.
func HashOf(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, Prefix)
	if !ok {
		return "", false
	}
	hash, stamp, ok := strings.Cut(rest, "_")
	if !ok || len(hash) != hashLen || stamp == "" {
		return "", false
	}
	return hash, true
}

// Backend lists and removes the partitions of one storage kind.
type Backend interface {
	List(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, name string) error
}

// Manager creates partition names and sweeps stale ones.
type Manager struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

func NewManager(backend Backend, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{backend: backend, logger: logger, now: time.Now}
}

// Next returns a fresh partition name for hash.
func (m *Manager) Next(hash string) string {
	return Name(hash, m.now())
}

// Sweep removes every partition not owned by keepHash and returns the removed
// names. An empty keepHash removes all partitions. Names that do not look like
// partitions are left alone.
func (m *Manager) Sweep(ctx context.Context, keepHash string) ([]string, error) {
	if m.backend == nil {
		return nil, nil
	}
	names, err := m.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}
	var removed []string
	var errs []error
	for _, name := range names {
		hash, ok := HashOf(name)
		if !ok || hash == keepHash {
			continue
		}
		if err := m.backend.Remove(ctx, name); err != nil {
			m.logger.Warn("partition sweep failed", zap.String("partition", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("removing %s: %w", name, err))
			continue
		}
		removed = append(removed, name)
	}
	if len(removed) > 0 {
		m.logger.Info("swept stale partitions", zap.Strings("partitions", removed))
	}
	return removed, errors.Join(errs...)
}
