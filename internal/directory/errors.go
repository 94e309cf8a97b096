package directory

import "fmt"

// APIError carries a non-success backend envelope through to the caller
// unclassified. The directory layer does not interpret these beyond
// extracting the message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
