// Package portaltest runs a fake open-data portal for tests: landing pages and files served by
// path, plus the package_show action.
package portaltest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Placeholder in a served body is replaced by the scheme and host the request was made to.
const Placeholder = "{{portal}}"

type Portal struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	packages map[string]string
	hits     map[string]int
}

// New starts a portal that is shut down when the test ends.
func New(t testing.TB) *Portal {
	t.Helper()

	p := &Portal{
		bodies:   make(map[string]string),
		statuses: make(map[string]int),
		packages: make(map[string]string),
		hits:     make(map[string]int),
	}
	p.Server = httptest.NewServer(p)
	t.Cleanup(p.Close)

	return p
}

// Serve answers GET path with body.
func (p *Portal) Serve(path, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies[path] = body
}

// Fail answers GET path with an empty body and the given status.
func (p *Portal) Fail(path string, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[path] = status
}

// Package answers package_show?id=id with body.
func (p *Portal) Package(id, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.packages[id] = body
}

// Resources is a shortcut for a package_show body listing the given URLs.
func Resources(urls ...string) string {
	items := make([]string, 0, len(urls))
	for _, u := range urls {
		items = append(items, fmt.Sprintf(`{"url": %q}`, u))
	}
	return fmt.Sprintf(`{"success": true, "result": {"resources": [%s]}}`, strings.Join(items, ", "))
}

// Hits counts requests for path; package_show calls are counted as "package_show?id=<id>".
func (p *Portal) Hits(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits[path]
}

// RoutingClient talks to the portal whatever host a URL names, so tests can use realistic URLs.
func (p *Portal) RoutingClient() *http.Client {
	return &http.Client{Transport: handlerTransport{p}}
}

func (p *Portal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	scheme := "http"
	if r.URL.Scheme != "" {
		scheme = r.URL.Scheme
	}
	expand := func(body string) string {
		return strings.ReplaceAll(body, Placeholder, scheme+"://"+host)
	}

	if strings.HasSuffix(r.URL.Path, "/api/3/action/package_show") {
		id := r.URL.Query().Get("id")
		p.hits["package_show?id="+id]++
		body, ok := p.packages[id]
		if !ok {
			http.Error(w, `{"success": false, "error": {"message": "Not found", "__type": "Not Found Error"}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, expand(body))
		return
	}

	p.hits[r.URL.Path]++
	if status, ok := p.statuses[r.URL.Path]; ok {
		w.WriteHeader(status)
		return
	}
	body, ok := p.bodies[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, expand(body))
}

type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
