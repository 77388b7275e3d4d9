// Package service runs the question answering cycle over a session's documents.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/failure"
	"github.com/CrisMolina12/CatchaiIA/internal/prompt"
	"github.com/CrisMolina12/CatchaiIA/internal/session"
)

// Kind tags a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindNoDocuments
	KindRateLimited
	KindAuthError
	KindUnknownError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNoDocuments:
		return "no_documents"
	case KindRateLimited:
		return "rate_limited"
	case KindAuthError:
		return "auth_error"
	default:
		return "unknown_error"
	}
}

const (
	NoDocumentsAnswer = "Please upload some PDF documents first."
	NoDocumentsLoaded = "No documents loaded."
	SummaryFailed     = "Could not generate the summary."
	ComparisonFailed  = "Could not complete the comparison."
)

// Result is the outcome of one question. Attributions are empty unless Kind
// is KindSuccess.
type Result struct {
	Kind         Kind
	Answer       string
	Attributions []domain.Attribution
}

// Retriever picks the context chunks for a question.
type Retriever interface {
	Retrieve(ctx context.Context, idx domain.Indexer, question string) ([]domain.Chunk, error)
}

// Orchestrator answers questions against the documents of one session.
type Orchestrator struct {
	session   *session.Session
	retriever Retriever
	generator domain.Generator
	logger    *zap.Logger
}

func NewOrchestrator(s *session.Session, r Retriever, g domain.Generator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{session: s, retriever: r, generator: g, logger: logger}
}

func (o *Orchestrator) Session() *session.Session { return o.session }

// AskQuestion answers question and records the assistant turn. The caller
// records the user turn. Failures come back as classified results and are
// recorded too; without documents nothing is recorded.
func (o *Orchestrator) AskQuestion(ctx context.Context, question string) Result {
	res, called := o.run(ctx, question)
	if called {
		o.session.AppendAssistant(res.Answer, res.Attributions)
	}
	return res
}

// Summarize produces an executive summary of all documents.
func (o *Orchestrator) Summarize(ctx context.Context) string {
	return o.canned(ctx, prompt.SummaryQuestion, SummaryFailed)
}

// CompareDocuments compares all documents along aspect.
func (o *Orchestrator) CompareDocuments(ctx context.Context, aspect string) string {
	return o.canned(ctx, prompt.CompareQuestion(aspect), ComparisonFailed)
}

// Themes asks the model for the main themes across the documents.
func (o *Orchestrator) Themes(ctx context.Context) ([]Theme, error) {
	res, _ := o.run(ctx, prompt.ThemesQuestion)
	switch res.Kind {
	case KindSuccess:
		return ParseThemes(res.Answer), nil
	case KindNoDocuments:
		return nil, session.ErrNoIndex
	default:
		return nil, fmt.Errorf("identifying themes: %s", res.Answer)
	}
}

// Ingest loads files into a fresh partition, discarding the previous one.
func (o *Orchestrator) Ingest(ctx context.Context, files []string) (*domain.IngestResult, error) {
	return o.session.Ingest(ctx, files)
}

// Reset drops the documents and history.
func (o *Orchestrator) Reset(ctx context.Context) error {
	return o.session.Reset(ctx)
}

func (o *Orchestrator) canned(ctx context.Context, question, failed string) string {
	res, _ := o.run(ctx, question)
	switch res.Kind {
	case KindSuccess:
		return res.Answer
	case KindNoDocuments:
		return NoDocumentsLoaded
	case KindRateLimited, KindAuthError:
		// the guidance tells the user what to change before retrying
		return res.Answer
	default:
		return failed
	}
}

// run executes one retrieve-assemble-generate cycle. called is false when the
// session had no documents or was busy, in which case nothing was attempted.
func (o *Orchestrator) run(ctx context.Context, question string) (Result, bool) {
	idx, err := o.session.BeginCall()
	switch {
	case errors.Is(err, session.ErrNoIndex):
		return Result{Kind: KindNoDocuments, Answer: NoDocumentsAnswer}, false
	case err != nil:
		return Result{Kind: KindUnknownError, Answer: "Error: " + err.Error()}, false
	}
	defer o.session.EndCall()

	chunks, err := o.retriever.Retrieve(ctx, idx, question)
	if err != nil {
		return o.failed(err), true
	}
	set := domain.GroupBySource(chunks)
	structured := prompt.AssembleContext(set)
	o.logger.Debug("context built",
		zap.Int("documents", len(set.Sources)),
		zap.Int("chunks", len(chunks)),
		zap.Int("context_chars", len(structured)))

	answer, err := o.generator.Generate(ctx, prompt.Build(structured, question))
	if err != nil {
		return o.failed(err), true
	}
	o.logger.Debug("documents consulted", zap.Strings("sources", set.Sources))
	return Result{Kind: KindSuccess, Answer: answer, Attributions: set.Attributions()}, true
}

func (o *Orchestrator) failed(err error) Result {
	out := failure.Classify(err)
	o.logger.Error("question failed", zap.Stringer("kind", out.Kind), zap.Error(err))
	kind := KindUnknownError
	switch out.Kind {
	case failure.KindRateLimited:
		kind = KindRateLimited
	case failure.KindAuthError:
		kind = KindAuthError
	}
	return Result{Kind: kind, Answer: out.Message}
}
