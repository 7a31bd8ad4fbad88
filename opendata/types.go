package opendata

// PackageShowResponse is the envelope every CKAN action wraps its payload in.
type PackageShowResponse struct {
	Help    string   `json:"help,omitempty"`
	Success *bool    `json:"success,omitempty"`
	Result  *Package `json:"result"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"__type"`
	} `json:"error,omitempty"`
}

// Package is the subset of a CKAN package (a "dataset" in portal speak) that we use.  DKAN
// serves Notes as HTML.
type Package struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Notes string `json:"notes,omitempty"`
	URL   string `json:"url,omitempty"`

	MetadataModified string `json:"metadata_modified,omitempty"`

	// Resources is nil when the response had no "resources" key at all, and empty when it had an
	// empty list.
	Resources []Resource `json:"resources"`
}

// Resource is one downloadable file attached to a Package.
type Resource struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
	URL    string `json:"url"`
}

// Metadata is the slot for per-dataset metadata in a Record.  Nothing fills it yet: the harvest
// only records resource URLs, and the JSON artifact carries an explicit null.
type Metadata struct {
	Title string `json:"title,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Record is what we remember about one dataset.
type Record struct {
	Metadata *Metadata `json:"metadata"`
	Data     []string  `json:"data"`
}
