package balance

import "fmt"

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API Error: %d %s - %s", e.StatusCode, e.StatusText, e.Body)
}

// NetworkError is returned when no response was obtained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network/API Error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is returned when a 2xx body is not JSON.
type DecodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("API Error: %d invalid response body: %v - %s", e.StatusCode, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }
