// Package chunkerr defines the error taxonomy shared by every component in
// the module: a small, closed set of Kind values that callers can branch on
// via errors.As, each wrapping the failing component's name and cause.
package chunkerr

import (
	"errors"
	"fmt"
)

// Kind classifies why a component failed.
type Kind string

const (
	// KindInput marks a problem with the caller-supplied input itself
	// (empty text, malformed document, out-of-range offsets).
	KindInput Kind = "input"

	// KindConfiguration marks a problem with how a component was built
	// (missing required option, invalid option value, unresolved registry name).
	KindConfiguration Kind = "configuration"

	// KindTokenizer marks a failure inside a Tokenizer/Encoder/AlignedEncoder
	// call, or a capability a chunker required but the tokenizer lacks.
	KindTokenizer Kind = "tokenizer"

	// KindCollaborator marks a failure returned by an external collaborator
	// (Fetcher, Chef, embedding.Model, Porter).
	KindCollaborator Kind = "collaborator"
)

// Reason names a specific failure mode within a Kind. Unlike Kind, which
// groups errors for broad handling, Reason lets a caller check for one
// named failure without caring about its message text.
type Reason string

const (
	ReasonChunkSizeInvalid             Reason = "ChunkSizeInvalid"
	ReasonOverlapInvalid               Reason = "OverlapInvalid"
	ReasonThresholdOutOfRange          Reason = "ThresholdOutOfRange"
	ReasonEmptyInput                   Reason = "EmptyInput"
	ReasonUnknownComponent             Reason = "UnknownComponent"
	ReasonWrongComponentType           Reason = "WrongComponentType"
	ReasonMissingChunker               Reason = "MissingChunker"
	ReasonMultipleProcessors           Reason = "MultipleProcessors"
	ReasonMultipleFetchers             Reason = "MultipleFetchers"
	ReasonNoInput                      Reason = "NoInput"
	ReasonDuplicateAlias               Reason = "DuplicateAlias"
	ReasonTokenizerRoundTripUnsupported Reason = "TokenizerRoundTripUnsupported"
	ReasonAlignmentUnsupported         Reason = "AlignmentUnsupported"
	ReasonFetchFailed                  Reason = "FetchFailed"
	ReasonEmbedFailed                  Reason = "EmbedFailed"
	ReasonExportFailed                 Reason = "ExportFailed"
)

// Error is the concrete error type returned by this module's components.
type Error struct {
	Kind      Kind
	Reason    Reason
	Component string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	ident := string(e.Kind)
	if e.Reason != "" {
		ident = string(e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ident, e.Component, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ident, e.Component, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, &Error{Kind: ...}) and
// errors.Is(err, &Error{Kind: ..., Reason: ...}) style checks. A target with Reason set
// must match both Kind and Reason; a target with only Kind set matches Kind
// alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason != "" {
		return e.Kind == t.Kind && e.Reason == t.Reason
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind with no specific Reason.
func New(kind Kind, component, message string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Message: message, Cause: cause}
}

// WithReason constructs an Error carrying a specific named failure mode.
func WithReason(kind Kind, reason Reason, component, message string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Component: component, Message: message, Cause: cause}
}

// Input constructs a KindInput error.
func Input(component, message string, cause error) *Error {
	return New(KindInput, component, message, cause)
}

// Configuration constructs a KindConfiguration error.
func Configuration(component, message string, cause error) *Error {
	return New(KindConfiguration, component, message, cause)
}

// Tokenizer constructs a KindTokenizer error.
func Tokenizer(component, message string, cause error) *Error {
	return New(KindTokenizer, component, message, cause)
}

// Collaborator constructs a KindCollaborator error.
func Collaborator(component, message string, cause error) *Error {
	return New(KindCollaborator, component, message, cause)
}

// IsReason reports whether err (or something it wraps) is an *Error with
// the given Reason.
func IsReason(err error, reason Reason) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason == reason
	}
	return false
}

// KindOf reports the Kind of err if it (or something it wraps) is a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
