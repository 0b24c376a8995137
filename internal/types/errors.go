package types

import "errors"

// Error taxonomy for the planning pipeline. Stages wrap these sentinels with
// fmt.Errorf("...: %w", ...) so callers can classify failures with errors.Is
// while still surfacing the original query and failing stage in the message.
var (
	// ErrInvalidInput marks a caller mistake (empty query, bad payload). Not retryable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLocationNotFound means the geocoding service returned zero candidates.
	// The wrapped message always echoes the original query.
	ErrLocationNotFound = errors.New("location not found")
	// ErrUpstreamService marks a transient network or service failure on an
	// external call. Callers may retry the whole pipeline with backoff.
	ErrUpstreamService = errors.New("upstream service failure")
	// ErrMalformedResponse means an upstream payload was missing expected fields.
	// Indicates contract drift, logged but never retried automatically.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrPlanFormat means the language model output failed schema validation.
	ErrPlanFormat = errors.New("activity plan failed schema validation")
	// ErrCanceled marks cooperative cancellation of an in-flight pipeline.
	ErrCanceled = errors.New("pipeline canceled")
)
