package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"monogrid/internal/logging"
	"monogrid/internal/metrics"
)

const (
	defaultPhotoBaseURL = "https://api.pexels.com/v1"
	defaultVideoBaseURL = "https://api.pexels.com/videos"

	// DefaultPerPage matches the page size the browsing UI requests.
	DefaultPerPage = 30

	// maxPerPage is the upstream API's hard limit.
	maxPerPage = 80
)

// Client talks to the Pexels API. The zero value is not usable; create
// one with NewClient.
type Client struct {
	apiKey       string
	photoBaseURL string
	videoBaseURL string
	httpClient   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs overrides both API roots, mainly for tests.
func WithBaseURLs(photo, video string) Option {
	return func(c *Client) {
		c.photoBaseURL = photo
		c.videoBaseURL = video
	}
}

// NewClient creates a catalog client authorized with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		photoBaseURL: defaultPhotoBaseURL,
		videoBaseURL: defaultVideoBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchOptions are the filters a search endpoint accepts. Zero values
// are omitted from the request.
type SearchOptions struct {
	Query       string
	Orientation string // landscape, portrait, square
	Size        string // large, medium, small
	Color       string
	Page        int
	PerPage     int
}

func (o SearchOptions) values() url.Values {
	v := url.Values{}
	if o.Query != "" {
		v.Set("query", o.Query)
	}
	if o.Orientation != "" {
		v.Set("orientation", o.Orientation)
	}
	if o.Size != "" {
		v.Set("size", o.Size)
	}
	if o.Color != "" {
		v.Set("color", o.Color)
	}
	addPaging(v, o.Page, o.PerPage)
	return v
}

func addPaging(v url.Values, page, perPage int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))
}

// SearchPhotos queries the photo search endpoint.
func (c *Client) SearchPhotos(ctx context.Context, opts SearchOptions) (*PhotoList, error) {
	var list PhotoList
	if err := c.get(ctx, "search", c.photoBaseURL+"/search", opts.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CuratedPhotos fetches a page of the curated photo feed.
func (c *Client) CuratedPhotos(ctx context.Context, page, perPage int) (*PhotoList, error) {
	v := url.Values{}
	addPaging(v, page, perPage)

	var list PhotoList
	if err := c.get(ctx, "curated", c.photoBaseURL+"/curated", v, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SearchVideos queries the video search endpoint. The Color filter is
// not supported for videos and is ignored.
func (c *Client) SearchVideos(ctx context.Context, opts SearchOptions) (*VideoList, error) {
	v := opts.values()
	v.Del("color")

	var list VideoList
	if err := c.get(ctx, "video_search", c.videoBaseURL+"/search", v, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// PopularVideos fetches a page of the popular video feed.
func (c *Client) PopularVideos(ctx context.Context, page, perPage int) (*VideoList, error) {
	v := url.Values{}
	addPaging(v, page, perPage)

	var list VideoList
	if err := c.get(ctx, "video_popular", c.videoBaseURL+"/popular", v, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FeaturedCollections fetches a page of upstream curated collections.
func (c *Client) FeaturedCollections(ctx context.Context, page, perPage int) (*CollectionList, error) {
	v := url.Values{}
	addPaging(v, page, perPage)

	var list CollectionList
	if err := c.get(ctx, "collections_featured", c.photoBaseURL+"/collections/featured", v, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CollectionMedia fetches a page of a collection's mixed photo/video
// contents.
func (c *Client) CollectionMedia(ctx context.Context, id string, page, perPage int) (*MediaList, error) {
	if id == "" {
		return nil, fmt.Errorf("collection id is required")
	}
	v := url.Values{}
	addPaging(v, page, perPage)

	var list MediaList
	if err := c.get(ctx, "collection_media", c.photoBaseURL+"/collections/"+url.PathEscape(id), v, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// get performs an authorized GET and decodes the JSON response into
// out, recording per-endpoint metrics.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, params url.Values, out any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logging.Warn("Catalog %s returned %s: %s", endpoint, resp.Status, body)
		return fmt.Errorf("catalog returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	logging.Debug("Catalog %s completed in %v", endpoint, time.Since(start))
	return nil
}
