package localdump

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// FileNameFromURL picks the name a resource is saved under: the last segment of its path.  The
// query string and fragment don't take part.
func FileNameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't parse resource URL: %w", err)
	}

	segments := strings.Split(u.Path, "/")
	name := segments[len(segments)-1]

	switch name {
	case "", ".", "..":
		return "", fmt.Errorf("localdump: resource URL has no file name: %s", raw)
	}

	return name, nil
}

// Collisions returns the file names shared by more than one URL, with the URLs in order.
func Collisions(urls []string) map[string][]string {
	byName := make(map[string][]string)
	for _, u := range urls {
		name, err := FileNameFromURL(u)
		if err != nil {
			// reported when we get to downloading it
			continue
		}
		byName[name] = append(byName[name], u)
	}

	clashes := make(map[string][]string)
	for name, urls := range byName {
		if len(urls) > 1 {
			clashes[name] = urls
		}
	}

	return clashes
}

// CollisionNames lists the keys of Collisions in lexical order.
func CollisionNames(clashes map[string][]string) []string {
	names := maps.Keys(clashes)
	sort.Strings(names)
	return names
}
