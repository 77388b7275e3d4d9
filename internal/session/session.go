// Package session holds the per-user state of a conversation: the credential
// the index was built under, the active index partition and the history.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/index"
	"github.com/CrisMolina12/CatchaiIA/internal/partition"
)

// State is the lifecycle position of a session.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateCalling
	StateIngesting
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateCalling:
		return "calling"
	case StateIngesting:
		return "ingesting"
	default:
		return "uninitialized"
	}
}

var (
	// ErrNoIndex means no documents have been ingested.
	ErrNoIndex = errors.New("no documents loaded")
	// ErrBusy means a model call or an ingestion is already in flight.
	ErrBusy = errors.New("session is busy, try again when the current request finishes")
)

// Runner ingests files into an index.
type Runner interface {
	Run(ctx context.Context, files []string, idx domain.Indexer) (*domain.IngestResult, error)
}

// Session is safe for concurrent use. At most one model call or ingestion
// runs at a time; lifecycle changes attempted meanwhile fail with ErrBusy.
type Session struct {
	partitions *partition.Manager
	opener     index.Opener
	ingestor   Runner
	logger     *zap.Logger

	mu             sync.Mutex
	credentialHash string
	index          domain.Indexer
	result         *domain.IngestResult
	history        []domain.Turn
	state          State
}

func New(credential string, partitions *partition.Manager, opener index.Opener, ingestor Runner, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if partitions == nil {
		partitions = partition.NewManager(nil, logger)
	}
	return &Session{
		partitions:     partitions,
		opener:         opener,
		ingestor:       ingestor,
		logger:         logger,
		credentialHash: partition.Hash(credential),
	}
}

func (s *Session) CredentialHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentialHash
}

// SweepStale removes partitions built under any other credential.
func (s *Session) SweepStale(ctx context.Context) ([]string, error) {
	return s.partitions.Sweep(ctx, s.CredentialHash())
}

// Ingest replaces the session's documents with files. The previous partition
// and history are discarded first; on failure the session has no index.
func (s *Session) Ingest(ctx context.Context, files []string) (*domain.IngestResult, error) {
	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.teardownLocked(ctx)
	s.state = StateIngesting
	hash := s.credentialHash
	s.mu.Unlock()

	name := s.partitions.Next(hash)
	res, idx, err := s.build(ctx, name, files)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateUninitialized
		return res, err
	}
	res.Partition = name
	s.index = idx
	s.result = res
	s.state = StateReady
	s.logger.Info("session ready", zap.String("partition", name), zap.Strings("documents", res.Names()))
	return res, nil
}

// build opens partition name and runs the ingestor into it, dropping the
// partition again when ingestion fails.
func (s *Session) build(ctx context.Context, name string, files []string) (*domain.IngestResult, domain.Indexer, error) {
	idx, err := s.opener.Open(ctx, name)
	if err != nil {
		return nil, nil, &domain.IndexError{Op: "open", Err: err}
	}
	res, err := s.ingestor.Run(ctx, files, idx)
	if err != nil {
		if derr := idx.Drop(ctx); derr != nil {
			s.logger.Warn("dropping failed partition", zap.String("partition", name), zap.Error(derr))
		}
		return res, nil, err
	}
	return res, idx, nil
}

// Rebind switches the session to credential. When its hash differs from the
// current one, the active index is dropped, history and ingestion results are
// cleared, and partitions of every other credential are swept. It reports
// whether anything changed.
func (s *Session) Rebind(ctx context.Context, credential string) (bool, error) {
	hash := partition.Hash(credential)
	s.mu.Lock()
	if hash == s.credentialHash {
		s.mu.Unlock()
		return false, nil
	}
	if s.busyLocked() {
		s.mu.Unlock()
		return false, ErrBusy
	}
	s.logger.Info("credential changed", zap.String("from", s.credentialHash), zap.String("to", hash))
	s.teardownLocked(ctx)
	s.credentialHash = hash
	s.mu.Unlock()

	if _, err := s.partitions.Sweep(ctx, hash); err != nil {
		return true, err
	}
	return true, nil
}

// Reset clears history and drops the index.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return ErrBusy
	}
	s.teardownLocked(ctx)
	return nil
}

func (s *Session) busyLocked() bool {
	return s.state == StateCalling || s.state == StateIngesting
}

func (s *Session) teardownLocked(ctx context.Context) {
	if s.index != nil {
		if err := s.index.Drop(ctx); err != nil {
			s.logger.Warn("dropping index", zap.Error(err))
		}
	}
	s.index = nil
	s.result = nil
	s.history = nil
	s.state = StateUninitialized
}

// BeginCall marks a model call as in flight and hands out the index to use.
func (s *Session) BeginCall() (domain.Indexer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.busyLocked():
		return nil, ErrBusy
	case s.index == nil:
		return nil, ErrNoIndex
	}
	s.state = StateCalling
	return s.index, nil
}

// EndCall returns the session to Ready after BeginCall.
func (s *Session) EndCall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCalling {
		s.state = StateReady
	}
}

func (s *Session) HasIndex() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index != nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the last successful ingestion, or nil.
func (s *Session) Result() *domain.IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) AppendUser(content string) {
	s.append(domain.Turn{Role: domain.RoleUser, Content: content})
}

func (s *Session) AppendAssistant(content string, attrs []domain.Attribution) {
	s.append(domain.Turn{Role: domain.RoleAssistant, Content: content, Attributions: attrs})
}

func (s *Session) append(t domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, t)
}

// History returns a copy of the conversation so far.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Turn(nil), s.history...)
}
