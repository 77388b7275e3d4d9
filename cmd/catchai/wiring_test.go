package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrisMolina12/CatchaiIA/internal/config"
	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/partition"
)

func testConfig(t *testing.T, store string) *config.AppConfig {
	t.Helper()
	cfg, err := config.Load(t.TempDir() + "/absent.yaml")
	require.NoError(t, err)
	cfg.VectorStore.Type = store
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestEmbedderFactory(t *testing.T) {
	cfg := testConfig(t, "memory")
	newEmbedder, err := embedderFactory(cfg)
	require.NoError(t, err)
	a, b := newEmbedder(), newEmbedder()
	assert.Equal(t, "tfidf", a.Name())
	assert.NotSame(t, a, b)

	cfg.Embedder.Type = "word2vec"
	_, err = embedderFactory(cfg)
	assert.Error(t, err)
}

func TestEmbedderFactory_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("CATCHAI_EMBED_KEY", "")
	cfg := testConfig(t, "memory")
	cfg.Embedder.Type = "openai"
	cfg.Embedder.OpenAI = &config.OpenAIEmbedderConfig{APIKeyEnv: "CATCHAI_EMBED_KEY"}

	_, err := embedderFactory(cfg)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestStorage_SQLitePartitionsAreSweepable(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	newEmbedder, err := embedderFactory(cfg)
	require.NoError(t, err)

	opener, backend, err := storage(cfg, newEmbedder, nil)
	require.NoError(t, err)
	require.NotNil(t, backend)

	name := partition.Name(partition.Hash("old-key"), time.Now())
	idx, err := opener.Open(context.Background(), name)
	require.NoError(t, err)
	require.NoError(t, idx.Ingest(context.Background(), []domain.Chunk{
		{ID: "1", SourceDocument: "a.pdf", Content: "some text"},
	}))

	removed, err := partition.NewManager(backend, nil).Sweep(context.Background(), partition.Hash("new-key"))
	require.NoError(t, err)
	assert.Equal(t, []string{name}, removed)
}

func TestStorage_MemoryHasNoBackend(t *testing.T) {
	cfg := testConfig(t, "memory")
	newEmbedder, err := embedderFactory(cfg)
	require.NoError(t, err)

	_, backend, err := storage(cfg, newEmbedder, nil)
	require.NoError(t, err)
	assert.Nil(t, backend)
}

func TestStorage_Unknown(t *testing.T) {
	cfg := testConfig(t, "faiss")
	_, _, err := storage(cfg, nil, nil)
	assert.Error(t, err)
}
