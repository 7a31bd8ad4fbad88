package opendata

import (
	"fmt"
	"net/http"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// UseRecorder routes the client through a go-vcr cassette.  Call the returned func when done so
// new interactions are written out.
func (a *API) UseRecorder(cassetteName string, mode recorder.Mode) (func() error, error) {
	opts := &recorder.Options{
		CassetteName:       cassetteName,
		Mode:               mode,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't set up go-vcr recorder: %w", err)
	}

	// Portals hand out session cookies we have no business keeping on disk.
	hook := func(i *cassette.Interaction) error {
		delete(i.Response.Headers, "Set-Cookie")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	timeout := a.Client.Timeout
	a.Client = r.GetDefaultClient()
	a.Client.Timeout = timeout

	return r.Stop, nil
}
