package opendata

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

// DefaultPortal is the open-data site the tool was first written against.
const DefaultPortal = "http://data.montpellier3m.fr"

func NewAPI(portal string) (*API, error) {
	if portal == "" {
		return nil, fmt.Errorf("opendata: configure your portal with --portal")
	}

	u, err := url.ParseRequestURI(portal)
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't parse portal URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("opendata: portal URL has no host: %s", portal)
	}

	a := &API{
		BaseURI: u,
	}
	a.Client = &http.Client{}
	a.SetNodeDomain(u.Host)

	return a, nil
}

type API struct {
	// Root of the portal, e.g. http://data.montpellier3m.fr.  The CKAN action API hangs off it.
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	nodeDomain  string
	nodePattern *regexp.Regexp
}

// SetNodeDomain changes the domain that landing pages are scanned for.  Portals sometimes serve
// their action API from a different host than the one their /node/ links mention.
func (a *API) SetNodeDomain(domain string) {
	a.nodeDomain = domain
	a.nodePattern = NodePattern(domain)
}

func (a *API) NodeDomain() string {
	return a.nodeDomain
}
