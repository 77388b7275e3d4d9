package partition

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore/qdrant"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore/sqlite"
)

// DirBackend manages SQLite partition files in one directory.
type DirBackend struct {
	Dir string
}

func (b DirBackend) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sqlite.Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), sqlite.Extension))
	}
	return names, nil
}

func (b DirBackend) Remove(_ context.Context, name string) error {
	return sqlite.Remove(filepath.Join(b.Dir, name+sqlite.Extension))
}

// QdrantBackend manages partitions stored as Qdrant collections.
type QdrantBackend struct {
	Client *qdrant.Storage
}

func (b QdrantBackend) List(ctx context.Context) ([]string, error) {
	return b.Client.ListCollections(ctx)
}

func (b QdrantBackend) Remove(ctx context.Context, name string) error {
	return b.Client.DeleteCollection(ctx, name)
}
