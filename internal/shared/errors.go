package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthRequired = fmt.Errorf("authentication required")
	ErrAuthFailed   = fmt.Errorf("authentication failed")

	// Provider errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrRateLimited      = fmt.Errorf("rate limited")
	ErrQuotaExceeded    = fmt.Errorf("quota exceeded")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrAccessDenied     = fmt.Errorf("access denied")

	// Pipeline errors
	ErrEmptySource = fmt.Errorf("source playlist is empty")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
