package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/chunker"
	"github.com/CrisMolina12/CatchaiIA/internal/config"
	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/embedding/openai"
	"github.com/CrisMolina12/CatchaiIA/internal/embedding/tfidf"
	"github.com/CrisMolina12/CatchaiIA/internal/extract"
	"github.com/CrisMolina12/CatchaiIA/internal/failure"
	"github.com/CrisMolina12/CatchaiIA/internal/index"
	"github.com/CrisMolina12/CatchaiIA/internal/ingest"
	llm "github.com/CrisMolina12/CatchaiIA/internal/llm/openai"
	"github.com/CrisMolina12/CatchaiIA/internal/logging"
	"github.com/CrisMolina12/CatchaiIA/internal/partition"
	"github.com/CrisMolina12/CatchaiIA/internal/retriever"
	"github.com/CrisMolina12/CatchaiIA/internal/service"
	"github.com/CrisMolina12/CatchaiIA/internal/session"
	"github.com/CrisMolina12/CatchaiIA/internal/summarizer"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore/memory"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore/qdrant"
	"github.com/CrisMolina12/CatchaiIA/internal/vectorstore/sqlite"
)

// app is the assembled component graph for one process.
type app struct {
	cfg       *config.AppConfig
	logger    *zap.Logger
	session   *session.Session
	generator *llm.Client
	orch      *service.Orchestrator
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Verbose = true
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	failure.CredentialEnv = cfg.Credential.Env

	credential, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	newEmbedder, err := embedderFactory(cfg)
	if err != nil {
		return nil, err
	}
	opener, backend, err := storage(cfg, newEmbedder, logger)
	if err != nil {
		return nil, err
	}
	partitions := partition.NewManager(backend, logger)

	ing := ingest.New(
		extract.NewPDF(logger),
		chunker.NewCharChunker(cfg.Chunker.Size, cfg.Chunker.Overlap),
		summarizer.NewFrequencySummarizer(),
		ingest.WithMaxFiles(cfg.Ingest.MaxFiles),
		ingest.WithPreviewSentences(cfg.Ingest.PreviewSentences),
		ingest.WithLogger(logger),
	)
	sess := session.New(credential, partitions, opener, ing, logger)
	if _, err := sess.SweepStale(ctx); err != nil {
		logger.Warn("sweeping stale partitions", zap.Error(err))
	}

	gen, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      credential,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}
	ret := retriever.NewDiverse(cfg.Retrieval.KPerDoc, cfg.Retrieval.FallbackK, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		session:   sess,
		generator: gen,
		orch:      service.NewOrchestrator(sess, ret, gen, logger),
	}, nil
}

// rebind picks up an API key changed in the env file since startup.
func (a *app) rebind(ctx context.Context) (bool, error) {
	credential, err := a.cfg.ReloadAPIKey()
	if err != nil {
		return false, err
	}
	changed, err := a.session.Rebind(ctx, credential)
	if changed {
		a.generator.SetAPIKey(credential)
	}
	return changed, err
}

// close drops the session's partition and flushes logs.
func (a *app) close(ctx context.Context) {
	if err := a.session.Reset(ctx); err != nil {
		a.logger.Warn("dropping session index", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// embedderFactory returns a constructor; each partition gets its own
// embedder because TF-IDF state is per corpus.
func embedderFactory(cfg *config.AppConfig) (func() domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return func() domain.Embedder { return tfidf.NewEmbedder() }, nil
	case "openai":
		o := cfg.Embedder.OpenAI
		key, err := cfg.EmbedderAPIKey()
		if err != nil {
			return nil, err
		}
		ocfg := openai.Config{
			BaseURL:           o.BaseURL,
			APIKey:            key,
			Model:             o.Model,
			Timeout:           time.Duration(o.TimeoutSecs) * time.Second,
			RequestsPerSecond: o.RequestsPerSecond,
			MaxRetries:        o.MaxRetries,
		}
		if _, err := openai.NewClient(ocfg); err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return func() domain.Embedder {
			c, _ := openai.NewClient(ocfg)
			return c
		}, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func storage(cfg *config.AppConfig, newEmbedder func() domain.Embedder, logger *zap.Logger) (index.Opener, partition.Backend, error) {
	build := func(st vectorstore.Storage) domain.Indexer {
		return index.New(newEmbedder(), st, logger)
	}
	switch cfg.VectorStore.Type {
	case "memory":
		return index.OpenerFunc(func(context.Context, string) (domain.Indexer, error) {
			return build(memory.NewStorage()), nil
		}), nil, nil
	case "sqlite", "":
		return index.OpenerFunc(func(_ context.Context, name string) (domain.Indexer, error) {
			st, err := sqlite.Open(cfg.DataDir, name)
			if err != nil {
				return nil, err
			}
			return build(st), nil
		}), partition.DirBackend{Dir: cfg.DataDir}, nil
	case "qdrant":
		q := cfg.VectorStore.Qdrant
		qcfg := func(collection string) qdrant.Config {
			return qdrant.Config{
				URL:        q.URL,
				APIKey:     q.APIKey,
				Collection: collection,
				Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
			}
		}
		return index.OpenerFunc(func(_ context.Context, name string) (domain.Indexer, error) {
			return build(qdrant.NewStorage(qcfg(name))), nil
		}), partition.QdrantBackend{Client: qdrant.NewStorage(qcfg(""))}, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
