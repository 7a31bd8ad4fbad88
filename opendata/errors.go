package opendata

import (
	"errors"
	"fmt"
)

// ErrUnexpectedShape is wrapped by ParseError when a package_show body decodes as JSON but is
// missing the fields we rely on.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// NetworkError reports a fetch that could not complete: a transport failure, or a response with a
// non-2xx status.  StatusCode is zero for transport failures.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("opendata: fetching %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("opendata: fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a metadata API response we couldn't make sense of.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("opendata: parsing response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
