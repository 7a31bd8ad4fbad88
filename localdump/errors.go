package localdump

import "fmt"

// DownloadError reports a resource that didn't make it to disk, either because the fetch failed
// (Err wraps an *opendata.NetworkError) or because writing it did.
type DownloadError struct {
	URL  string
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("localdump: downloading %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("localdump: downloading %s to %s: %v", e.URL, e.Path, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
