package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Service error taxonomy. The remote client classifies every failure as
	// exactly one of these; the poller's retry policy keys off the class.
	ErrTransient = fmt.Errorf("transient service error") // network, 5xx, rate limiting: retryable
	ErrPermanent = fmt.Errorf("permanent request error") // 4xx, validation rejection: never retried
	ErrMalformed = fmt.Errorf("malformed response")      // unparseable payload: transient once, permanent on repeat

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
