package stock

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultPexelsURL is the Pexels API root.
const DefaultPexelsURL = "https://api.pexels.com"

// minVideoResults is the smallest page requested from the video search.
const minVideoResults = 10

var errNoResults = errors.New("no results")

// PexelsClient searches Pexels for portrait videos and photos.
type PexelsClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewPexelsClient creates a client for the public Pexels API.
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{APIKey: apiKey, BaseURL: DefaultPexelsURL}
}

type pexelsVideoFile struct {
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Link    string `json:"link"`
}

type pexelsVideo struct {
	ID         int               `json:"id"`
	Duration   int               `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsPhotoResponse struct {
	Photos []struct {
		Src struct {
			Large    string `json:"large"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *PexelsClient) base() string {
	if c.BaseURL == "" {
		return DefaultPexelsURL
	}
	return c.BaseURL
}

// FindVideos returns download links for up to count portrait videos matching query.
// Videos with no usable file are skipped.
func (c *PexelsClient) FindVideos(ctx context.Context, query string, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(max(count, minVideoResults)))
	params.Set("orientation", "portrait")

	var resp pexelsVideoResponse
	if err := getJSON(ctx, c.HTTP, c.base()+"/videos/search", params, c.APIKey, &resp); err != nil {
		return nil, err
	}
	if len(resp.Videos) == 0 {
		return nil, errNoResults
	}

	var links []string
	for _, v := range resp.Videos {
		if len(links) == count {
			break
		}
		if f := pickVideoFile(v.VideoFiles); f != nil {
			links = append(links, f.Link)
		}
	}
	if len(links) == 0 {
		return nil, errNoResults
	}
	return links, nil
}

// pickVideoFile prefers an hd portrait rendition, then sd portrait, then whatever is listed first.
func pickVideoFile(files []pexelsVideoFile) *pexelsVideoFile {
	for _, quality := range []string{"hd", "sd"} {
		for i := range files {
			f := &files[i]
			if f.Quality == quality && f.Link != "" && f.Width > 0 && f.Height > f.Width {
				return f
			}
		}
	}
	if len(files) > 0 && files[0].Link != "" {
		return &files[0]
	}
	return nil
}

// FindImage returns a portrait photo URL for query, retrying once without the orientation filter.
func (c *PexelsClient) FindImage(ctx context.Context, query string) (string, error) {
	link, err := c.searchPhoto(ctx, query, "portrait")
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, errNoResults) {
		return "", err
	}
	return c.searchPhoto(ctx, query, "")
}

func (c *PexelsClient) searchPhoto(ctx context.Context, query, orientation string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	var resp pexelsPhotoResponse
	if err := getJSON(ctx, c.HTTP, c.base()+"/v1/search", params, c.APIKey, &resp); err != nil {
		return "", err
	}
	if len(resp.Photos) == 0 {
		return "", errNoResults
	}
	src := resp.Photos[0].Src
	if src.Large != "" {
		return src.Large, nil
	}
	if src.Original != "" {
		return src.Original, nil
	}
	return "", errNoResults
}

// Name identifies the source in logs.
func (c *PexelsClient) Name() string {
	return "pexels"
}
