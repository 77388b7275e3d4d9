package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocuments means an ingestion batch produced no usable chunks.
	ErrNoDocuments = errors.New("no documents with extractable text")

	// ErrExtraction marks a file whose text could not be extracted.
	ErrExtraction = errors.New("extraction failed")

	// ErrIndex marks an embedding or storage failure during ingestion.
	ErrIndex = errors.New("index failure")

	// ErrRetrieval marks a failed context retrieval.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrMissingCredential means the model credential is unset or still a placeholder.
	ErrMissingCredential = errors.New("credential not configured")

	// ErrTooManyFiles means an ingestion batch exceeds the configured file limit.
	ErrTooManyFiles = errors.New("too many files")
)

// ExtractionError reports an unreadable or corrupt input file.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtraction, e.Err} }

// IndexError reports a failed embed or store step.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() []error { return []error{ErrIndex, e.Err} }
