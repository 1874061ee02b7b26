package research

import "fmt"

// APIError is returned when the research service answers with a non-2xx
// status. The pipeline aborts before any write occurs.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("research API error: status %d: %s", e.StatusCode, e.Body)
}

// ShortContentError is returned when the research service answered but the
// content is too short to build a brief from (near-empty or refused response).
type ShortContentError struct {
	Length int
	Min    int
}

func (e *ShortContentError) Error() string {
	return fmt.Sprintf("research content too short: %d chars (minimum %d)", e.Length, e.Min)
}
