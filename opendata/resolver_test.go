package opendata

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/opendata-dump/internal/portaltest"
)

func newTestResolver(t *testing.T, portal *portaltest.Portal) (*Resolver, *bytes.Buffer) {
	t.Helper()

	api, err := NewAPI("https://data.example.org")
	require.NoError(t, err)
	api.Client = portal.RoutingClient()

	var logs bytes.Buffer
	return &Resolver{
		API:    api,
		Logger: log.New(&logs, "", 0),
	}, &logs
}

func TestResolveSingleDataset(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/node/42", `<html><a href="https://data.example.org/node/42">permalink</a></html>`)
	portal.Package("42", `{"result":{"resources":[{"url":"https://example.org/files/a.csv"}]}}`)

	resolver, _ := newTestResolver(t, portal)
	result, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/node/42"})
	require.NoError(t, err)

	assert.Equal(t, []string{"[42]"}, result.Keys())
	record, ok := result.Get("[42]")
	require.True(t, ok)
	assert.Nil(t, record.Metadata)
	assert.Equal(t, []string{"https://example.org/files/a.csv"}, record.Data)
}

func TestResolveSkipsSeedWithoutNodeID(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/dataset/nothing-here", `<html>no links at all</html>`)
	portal.Serve("/node/7", `https://data.example.org/node/7`)
	portal.Package("7", portaltest.Resources("https://example.org/files/b.csv"))

	resolver, logs := newTestResolver(t, portal)
	result, err := resolver.Resolve(context.Background(), []string{
		"https://data.example.org/dataset/nothing-here",
		"https://data.example.org/node/7",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"[7]"}, result.Keys())
	assert.Contains(t, logs.String(), "Skipping seed 1")
	assert.Equal(t, 1, portal.Hits("package_show?id=7"))
}

func TestResolveSeedReportsMissingNodeID(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/empty", `nothing`)

	resolver, _ := newTestResolver(t, portal)
	ids, _, err := resolver.ResolveSeed(context.Background(), "https://data.example.org/empty")
	assert.ErrorIs(t, err, ErrNoNodeID)
	assert.Empty(t, ids)
}

func TestResolveEmptyResources(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/node/1", `data.example.org/node/1`)
	portal.Package("1", `{"success": true, "result": {"resources": []}}`)

	resolver, _ := newTestResolver(t, portal)
	result, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/node/1"})
	require.NoError(t, err)

	record, ok := result.Get("[1]")
	require.True(t, ok)
	assert.NotNil(t, record.Data)
	assert.Empty(t, record.Data)
}

func TestResolveUsesFirstMatchAndKeysOnAllMatches(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/dataset/trees", `https://data.example.org/node/42 <a href="http://data.example.org/node/9">related</a>`)
	portal.Package("42", portaltest.Resources(
		"https://example.org/files/trees.zip",
		"https://example.org/files/trees.pdf",
	))

	resolver, logs := newTestResolver(t, portal)
	result, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/dataset/trees"})
	require.NoError(t, err)

	assert.Equal(t, []string{"[42, 9]"}, result.Keys())
	record, _ := result.Get("[42, 9]")
	assert.Equal(t, []string{"https://example.org/files/trees.zip", "https://example.org/files/trees.pdf"}, record.Data)
	assert.Equal(t, 1, portal.Hits("package_show?id=42"))
	assert.Equal(t, 0, portal.Hits("package_show?id=9"))
	assert.Contains(t, logs.String(), "links to 2 nodes, using 42")
}

func TestResolveKeepsSeedOrderAndReplacesDuplicates(t *testing.T) {
	portal := portaltest.New(t)
	for _, id := range []string{"3", "1", "2"} {
		portal.Serve("/node/"+id, "data.example.org/node/"+id)
		portal.Package(id, portaltest.Resources("https://example.org/files/"+id+".csv"))
	}

	resolver, _ := newTestResolver(t, portal)
	result, err := resolver.Resolve(context.Background(), []string{
		"https://data.example.org/node/3",
		"https://data.example.org/node/1",
		"https://data.example.org/node/3",
		"https://data.example.org/node/2",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"[3]", "[1]", "[2]"}, result.Keys())
	assert.Equal(t, 2, portal.Hits("package_show?id=3"))
}

func TestResolveNetworkError(t *testing.T) {
	portal := portaltest.New(t)
	portal.Fail("/node/42", http.StatusInternalServerError)

	resolver, _ := newTestResolver(t, portal)
	_, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/node/42"})
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, "https://data.example.org/node/42", netErr.URL)
}

func TestResolveMissingPackageIsNetworkError(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/node/42", "data.example.org/node/42")

	resolver, _ := newTestResolver(t, portal)
	_, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/node/42"})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestResolveParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"no result", `{"success": true}`},
		{"no resources", `{"result": {"title": "Trees"}}`},
		{"resource without url", `{"result": {"resources": [{"name": "a"}]}}`},
		{"action failed", `{"success": false, "error": {"message": "Access denied"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portal := portaltest.New(t)
			portal.Serve("/node/42", "data.example.org/node/42")
			portal.Package("42", tt.body)

			resolver, _ := newTestResolver(t, portal)
			_, err := resolver.Resolve(context.Background(), []string{"https://data.example.org/node/42"})

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Contains(t, parseErr.URL, "package_show?id=42")
		})
	}
}

func TestResolveContinueOnError(t *testing.T) {
	portal := portaltest.New(t)
	portal.Fail("/node/1", http.StatusServiceUnavailable)
	portal.Serve("/node/2", "data.example.org/node/2")
	portal.Package("2", `{"result": {}}`)
	portal.Serve("/node/3", "data.example.org/node/3")
	portal.Package("3", portaltest.Resources("https://example.org/files/c.csv"))

	resolver, logs := newTestResolver(t, portal)
	resolver.ContinueOnError = true

	result, err := resolver.Resolve(context.Background(), []string{
		"https://data.example.org/node/1",
		"https://data.example.org/node/2",
		"https://data.example.org/node/3",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"[3]"}, result.Keys())
	assert.Contains(t, logs.String(), "Skipping seed 1")
	assert.Contains(t, logs.String(), "Skipping seed 2")
}

func TestDescribe(t *testing.T) {
	portal := portaltest.New(t)
	portal.Serve("/dataset/trees", "data.example.org/node/42")
	portal.Package("42", `{"result": {"name": "trees", "title": "Trees", "notes": "<p>All the trees.</p>",
		"resources": [{"url": "https://example.org/files/trees.csv", "format": "CSV"}]}}`)

	resolver, _ := newTestResolver(t, portal)
	id, pkg, err := resolver.Describe(context.Background(), "https://data.example.org/dataset/trees")
	require.NoError(t, err)

	assert.Equal(t, "42", id)
	assert.Equal(t, "Trees", pkg.Title)
	assert.Equal(t, "<p>All the trees.</p>", pkg.Notes)
	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, "CSV", pkg.Resources[0].Format)
}
