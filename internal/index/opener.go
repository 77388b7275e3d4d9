package index

import (
	"context"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// Opener creates the index backing a named partition.
type Opener interface {
	Open(ctx context.Context, partition string) (domain.Indexer, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, partition string) (domain.Indexer, error)

func (f OpenerFunc) Open(ctx context.Context, partition string) (domain.Indexer, error) {
	return f(ctx, partition)
}
