package exporter

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxAssetBytes caps a single asset download. Original-tier stock
// photos top out well below this; the cap guards against a misbehaving
// upstream streaming forever.
const maxAssetBytes = 512 << 20

// Fetcher retrieves raw bytes from a URL. It is the pipeline's only
// I/O boundary for asset retrieval, substituted with fakes in tests.
type Fetcher interface {
	// Fetch returns the body and the reported content type.
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// HTTPFetcher fetches assets with a plain HTTP GET. Timeouts come from
// the caller's context, not the client, so per-asset deadlines compose.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client uses
// http.DefaultClient.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch performs a GET and returns the body bytes and content type.
// Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
