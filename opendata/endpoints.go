package opendata

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// packageShowEndpoint returns the action API endpoint describing one dataset:
// https://docs.ckan.org/en/2.9/api/index.html#ckan.logic.action.get.package_show
func (a *API) packageShowEndpoint(opts PackageShowQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("opendata: please provide ID to show package")
	}

	ep, err := a.resolveEndpoint("api/3/action/package_show")
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.  The
// base path is kept, so a portal living under /data/ still gets /data/api/3/...
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := *a.BaseURI
	if len(baseUri.Path) == 0 || baseUri.Path[len(baseUri.Path)-1] != '/' {
		baseUri.Path += "/"
	}

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("opendata: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
