package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	// ErrTransport marks network and HTTP failures talking to a remote source.
	ErrTransport = crerr.New("remote transport failure")
	// ErrMalformedData drops a single record; the batch continues.
	ErrMalformedData = crerr.New("malformed remote record")
	// ErrNoData is a successful but empty response.
	ErrNoData = crerr.New("no data returned")
	// ErrStore is a persistence failure. It aborts the current pass.
	ErrStore              = crerr.New("local store failure")
	ErrStaticData         = crerr.New("static data unavailable")
	ErrVersionUnsupported = crerr.New("data version endpoint not supported")
	ErrSyncInProgress     = crerr.New("sync already in progress")
)

// RemoteError is a non-2xx answer from a remote API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote status %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return ErrTransport
}

// Temporary reports whether retrying the same request may succeed.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsRetryable is the retry classifier shared by every remote call.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMalformedData),
		errors.Is(err, ErrNoData),
		errors.Is(err, ErrVersionUnsupported),
		errors.Is(err, ErrDependencyUnavailable):
		return false
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Temporary()
	}
	return true
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func isStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}
