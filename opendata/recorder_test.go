package opendata

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/opendata-dump/internal/portaltest"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

func TestRecorderReplaysWithoutPortal(t *testing.T) {
	cassette := filepath.Join(t.TempDir(), "portal")

	portal := portaltest.New(t)
	portal.Serve("/node/42", portaltest.Placeholder+"/node/42")
	portal.Package("42", portaltest.Resources("https://example.org/files/a.csv"))

	seed := portal.URL + "/node/42"
	resolve := func(api *API) (*IngestionResult, error) {
		resolver := &Resolver{API: api}
		return resolver.Resolve(context.Background(), []string{seed})
	}

	api, err := NewAPI(portal.URL)
	require.NoError(t, err)
	stop, err := api.UseRecorder(cassette, recorder.ModeRecordOnly)
	require.NoError(t, err)

	recorded, err := resolve(api)
	require.NoError(t, err)
	require.NoError(t, stop())
	portal.Close()

	_, err = os.Stat(cassette + ".yaml")
	require.NoError(t, err)

	api, err = NewAPI(portal.URL)
	require.NoError(t, err)
	stop, err = api.UseRecorder(cassette, recorder.ModeReplayOnly)
	require.NoError(t, err)
	defer stop()

	replayed, err := resolve(api)
	require.NoError(t, err)
	assert.Equal(t, recorded.Keys(), replayed.Keys())
	assert.Equal(t, recorded.URLs(), replayed.URLs())

	// anything not on tape fails like a network error
	_, err = api.GetLandingPage(context.Background(), portal.URL+"/node/43")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestUseRecorderKeepsTimeout(t *testing.T) {
	api, err := NewAPI("https://data.example.org")
	require.NoError(t, err)
	api.Client = &http.Client{Timeout: 3}

	stop, err := api.UseRecorder(filepath.Join(t.TempDir(), "empty"), recorder.ModeRecordOnly)
	require.NoError(t, err)
	defer stop()

	assert.EqualValues(t, 3, api.Client.Timeout)
}
