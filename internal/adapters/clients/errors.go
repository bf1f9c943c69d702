// Package clients provides the instrumented HTTP client used by the
// remote API adapters in acl.
package clients

import "errors"

// Transport-level failures. The acl adapters translate them to domain
// errors; nothing above the adapters sees these.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once retries run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
