package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes centrally.
var (
	// ErrQuotaExceeded indicates the profile has used up today's generation
	// quota. The API layer maps this to HTTP 429 Too Many Requests.
	ErrQuotaExceeded = errors.New("daily generation quota exceeded")

	// ErrNothingToStudy indicates the profile has no studied items at all,
	// so no review pick can be made. The API layer maps this to HTTP 404.
	ErrNothingToStudy = errors.New("nothing studied yet")
)
