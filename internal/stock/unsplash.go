package stock

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultUnsplashURL is the Unsplash API root.
const DefaultUnsplashURL = "https://api.unsplash.com"

// UnsplashClient searches Unsplash for portrait photos.
type UnsplashClient struct {
	AccessKey string
	BaseURL   string
	HTTP      *http.Client
}

// NewUnsplashClient creates a client for the public Unsplash API.
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{AccessKey: accessKey, BaseURL: DefaultUnsplashURL}
}

type unsplashResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// FindImage returns the first portrait photo URL for query.
func (c *UnsplashClient) FindImage(ctx context.Context, query string) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultUnsplashURL
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "portrait")

	var resp unsplashResponse
	if err := getJSON(ctx, c.HTTP, base+"/search/photos", params, "Client-ID "+c.AccessKey, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		return "", errNoResults
	}
	return resp.Results[0].URLs.Regular, nil
}

// Name identifies the source in logs.
func (c *UnsplashClient) Name() string {
	return "unsplash"
}
