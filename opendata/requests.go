package opendata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// GetLandingPage fetches a dataset's landing page, which we only ever scan as text.
func (api *API) GetLandingPage(ctx context.Context, seedURL string) ([]byte, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, &NetworkError{URL: seedURL, Err: fmt.Errorf("couldn't parse seed URL: %w", err)}
	}

	body, err := api.request(ctx, u, "text/html, */*")
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't fetch landing page: %w", err)
	}

	return body, nil
}

// PackageShow asks the action API for one dataset and its resources.
func (api *API) PackageShow(ctx context.Context, opts PackageShowQuery) (*Package, error) {
	ep, err := api.packageShowEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't get package_show endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "application/json, */*")
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't perform request: %w", err)
	}

	pkg, err := parsePackageShow(body)
	if err != nil {
		return nil, &ParseError{URL: ep.String(), Err: err}
	}

	return pkg, nil
}

func parsePackageShow(body []byte) (*Package, error) {
	var response PackageShowResponse

	d := json.NewDecoder(bytes.NewReader(body))
	if err := d.Decode(&response); err != nil {
		return nil, fmt.Errorf("couldn't parse json response: %w", err)
	}

	if response.Success != nil && !*response.Success {
		if response.Error != nil {
			return nil, fmt.Errorf("%w: action failed: %s", ErrUnexpectedShape, response.Error.Message)
		}
		return nil, fmt.Errorf("%w: action failed", ErrUnexpectedShape)
	}
	if response.Result == nil {
		return nil, fmt.Errorf("%w: no \"result\" object", ErrUnexpectedShape)
	}
	if response.Result.Resources == nil {
		return nil, fmt.Errorf("%w: no \"result.resources\" list", ErrUnexpectedShape)
	}
	for i, r := range response.Result.Resources {
		if r.URL == "" {
			return nil, fmt.Errorf("%w: resource %d has no \"url\"", ErrUnexpectedShape, i)
		}
	}

	return response.Result, nil
}

// Fetch starts a GET for a resource file and hands back the open body.  The caller must close it.
func (api *API) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("couldn't instantiate http request: %w", err)}
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}

	if err := checkStatus(response); err != nil {
		response.Body.Close()
		return nil, &NetworkError{URL: rawURL, StatusCode: response.StatusCode, Err: err}
	}

	return response.Body, nil
}

// request implements the basic buffered GET.
func (api *API) request(ctx context.Context, url *url.URL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, &NetworkError{URL: url.String(), Err: fmt.Errorf("couldn't instantiate http request: %w", err)}
	}

	req.Header.Add("Accept", accept)

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url.String(), Err: err}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return nil, &NetworkError{URL: url.String(), Err: fmt.Errorf("couldn't read http response body: %w", err)}
	}

	if err := response.Body.Close(); err != nil {
		return nil, &NetworkError{URL: url.String(), Err: fmt.Errorf("couldn't close response body: %w", err)}
	}

	if err := checkStatus(response); err != nil {
		return nil, &NetworkError{URL: url.String(), StatusCode: response.StatusCode, Err: err}
	}

	return body, nil
}

var errStatus = errors.New("unexpected HTTP status")

func checkStatus(response *http.Response) error {
	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("not found: %s", response.Status)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("service is not available: %s", response.Status)
	case http.StatusInternalServerError:
		return fmt.Errorf("internal server error: %s", response.Status)
	}

	return fmt.Errorf("%w: %s", errStatus, response.Status)
}
