package client

import "fmt"

// TransportError reports a failure to reach a remote endpoint or to
// decode its body. It wraps the underlying network or parse error and is
// propagated to the caller without retries.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
