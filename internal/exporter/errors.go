package exporter

import (
	"errors"
	"fmt"
)

// Error kinds reported in batch outcomes.
const (
	ErrKindRetrieval  = "retrieval"
	ErrKindTranscode  = "transcode"
	ErrKindResolution = "resolution"
	ErrKindDelivery   = "delivery"
)

// RetrievalError reports a network or HTTP failure fetching an asset's
// bytes. Recovered locally: the asset is marked failed and the batch
// continues.
type RetrievalError struct {
	AssetID int64
	URL     string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for asset %d (%s): %v", e.AssetID, e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// TranscodeError reports source bytes that could not be decoded or
// re-encoded to the target format. Recovered locally.
type TranscodeError struct {
	AssetID int64
	Err     error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode failed for asset %d: %v", e.AssetID, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// ResolutionError reports an asset descriptor with no usable URL for
// any tier. A caller-side contract violation, but still degraded to a
// per-asset failure instead of an uncaught panic.
type ResolutionError struct {
	AssetID int64
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution failed for asset %d: %v", e.AssetID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DeliveryError reports that the finalized archive could not be handed
// to the delivery sink. Unlike per-asset errors it is fatal for the
// whole batch operation.
type DeliveryError struct {
	Filename string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for %s: %v", e.Filename, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// errorKind classifies a per-asset error for outcome reporting.
func errorKind(err error) string {
	var retrievalErr *RetrievalError
	var transcodeErr *TranscodeError
	var resolutionErr *ResolutionError

	switch {
	case errors.As(err, &retrievalErr):
		return ErrKindRetrieval
	case errors.As(err, &transcodeErr):
		return ErrKindTranscode
	case errors.As(err, &resolutionErr):
		return ErrKindResolution
	default:
		return ErrKindRetrieval
	}
}
