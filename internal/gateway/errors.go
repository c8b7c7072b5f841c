package gateway

import "fmt"

// TransportError covers network failures and non-2xx responses from the
// hosting API. StatusCode is zero when the request never completed.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway: %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code identifies the error class in handler summaries.
func (e *TransportError) Code() string { return "TRANSPORT_ERROR" }

// MalformedResponse means the API answered 2xx but the body could not be
// decoded or lacks the expected key. Distinct from TransportError so callers
// can tell a broken contract from a broken connection.
type MalformedResponse struct {
	Op         string
	MissingKey string
	Err        error
}

func (e *MalformedResponse) Error() string {
	if e.MissingKey != "" {
		return fmt.Sprintf("gateway: %s: response missing %q", e.Op, e.MissingKey)
	}
	return fmt.Sprintf("gateway: %s: undecodable response: %v", e.Op, e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// Code identifies the error class in handler summaries.
func (e *MalformedResponse) Code() string { return "MALFORMED_RESPONSE" }
