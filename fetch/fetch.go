package fetch

import "net/http"

// Request describes a single network retrieval attempt against one
// candidate address.
type Request struct {
	Address string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Outcome is the transport-level result of one attempt. A transport
// error (connection refused, timeout) is reported separately as an
// error and carries no outcome.
type Outcome struct {
	Status  int
	Payload []byte
}

// IsSuccess reports whether the status is a 2xx success
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// IsClientError reports whether the status is a 4xx client failure.
// Client failures are never retried; the item advances to its next
// candidate address instead.
func IsClientError(status int) bool {
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
