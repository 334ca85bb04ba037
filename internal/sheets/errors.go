package sheets

import "errors"

// Fetch failures, classified so the pipeline and the UI layer can react
// without string matching. All are non-fatal upstream: the data pipeline
// falls back to static data on any of them.
var (
	// ErrInvalidSourceURL means the URL does not look like a spreadsheet link.
	ErrInvalidSourceURL = errors.New("invalid spreadsheet URL")

	// ErrNotConfigured means FetchCatalog was called before Configure.
	ErrNotConfigured = errors.New("spreadsheet not configured")

	// ErrRateLimited means the circuit breaker is open; no request was made.
	ErrRateLimited = errors.New("too many failed requests, waiting before retrying")

	// ErrAccessDenied means the sheet is not publicly accessible (or the
	// API key is not valid for it).
	ErrAccessDenied = errors.New("access denied: sheet is not publicly accessible")

	// ErrNotFound means the sheet does not exist at that URL.
	ErrNotFound = errors.New("sheet not found")

	// ErrMalformedRequest means the remote rejected the request shape.
	ErrMalformedRequest = errors.New("malformed request: check the sheet URL format")

	// ErrEmptyData means the sheet has no rows beyond the header.
	ErrEmptyData = errors.New("no workout data found in the sheet")

	// ErrTransportFailure wraps network and decoding errors.
	ErrTransportFailure = errors.New("failed to fetch sheet data")
)

// IsAccessDenied reports whether err is a remote permission failure.
// The pipeline clears stored credentials on these instead of retrying.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
