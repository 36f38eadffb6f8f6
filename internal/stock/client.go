// Package stock finds and downloads stock footage and photos for a content keyword.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jonathan/shorts-studio/internal/types"
)

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 30 * time.Second

// DownloadTimeout bounds a whole asset download, body included.
const DownloadTimeout = 5 * time.Minute

// MaxDownloadBytes caps a single asset download.
const MaxDownloadBytes int64 = 100 * 1024 * 1024

// RequestError represents a failed stock API call or download.
type RequestError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stock request %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("stock request %s: %s", e.URL, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// AssetUnavailableError is returned when no stock media could be found for a query.
type AssetUnavailableError struct {
	Query string
	Kind  types.AssetKind
	Cause error
}

func (e *AssetUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no stock %s available for %q: %v", e.Kind, e.Query, e.Cause)
	}
	return fmt.Sprintf("no stock %s available for %q", e.Kind, e.Query)
}

func (e *AssetUnavailableError) Unwrap() error {
	return e.Cause
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// downloadClient has no whole-request timeout: large clips are bounded by DownloadTimeout
// on the request context, and a stalled server by the response header timeout.
func downloadClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = DefaultTimeout
	return &http.Client{Transport: transport}
}

// getJSON performs an authorized GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, authorization string, out any) error {
	full := endpoint
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return &RequestError{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", authorization)

	resp, err := httpClient(client).Do(req)
	if err != nil {
		return &RequestError{URL: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{URL: endpoint, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// Download streams assetURL into path, refusing bodies larger than MaxDownloadBytes.
// A partial file is removed on failure.
func Download(ctx context.Context, client *http.Client, assetURL, path string) error {
	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return &RequestError{URL: assetURL, Message: "failed to create request", Cause: err}
	}

	resp, err := downloadClient(client).Do(req)
	if err != nil {
		return &RequestError{URL: assetURL, Message: "download failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{
			URL:        assetURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	if resp.ContentLength > MaxDownloadBytes {
		return &RequestError{URL: assetURL, Message: fmt.Sprintf("asset exceeds %d bytes", MaxDownloadBytes)}
	}

	f, err := os.Create(path)
	if err != nil {
		return &RequestError{URL: assetURL, Message: "failed to create file", Cause: err}
	}

	written, err := io.Copy(f, io.LimitReader(resp.Body, MaxDownloadBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return &RequestError{URL: assetURL, Message: "failed to write asset", Cause: err}
	case written > MaxDownloadBytes:
		_ = os.Remove(path)
		return &RequestError{URL: assetURL, Message: fmt.Sprintf("asset exceeds %d bytes", MaxDownloadBytes)}
	case closeErr != nil:
		_ = os.Remove(path)
		return &RequestError{URL: assetURL, Message: "failed to write asset", Cause: closeErr}
	}
	return nil
}
