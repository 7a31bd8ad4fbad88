package opendata

import (
	"fmt"
	"regexp"
	"strings"
)

// NodePattern matches links to a dataset node on the given domain, with or without a scheme.  The
// first capture group is the numeric node ID.
func NodePattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?:https?://)?%s/node/(\d+)`, regexp.QuoteMeta(domain)))
}

// NodeIDs holds every node ID found on one landing page, in page order.  Pages link to their own
// node more than once, and sometimes to other nodes too, so duplicates are expected.
type NodeIDs []string

// First is the ID we resolve the dataset by.
func (n NodeIDs) First() (string, bool) {
	if len(n) == 0 {
		return "", false
	}
	return n[0], true
}

// String renders the whole list, e.g. "[42]" or "[42, 42]".  This is the key a record is filed
// under in the metadata artifact.
func (n NodeIDs) String() string {
	return fmt.Sprintf("[%s]", strings.Join(n, ", "))
}

// NodeIDs scans a landing page body for links to dataset nodes on the configured domain.
func (api *API) NodeIDs(body []byte) NodeIDs {
	ids := NodeIDs{}
	for _, m := range api.nodePattern.FindAllSubmatch(body, -1) {
		ids = append(ids, string(m[1]))
	}
	return ids
}
