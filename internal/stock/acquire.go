package stock

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/jonathan/shorts-studio/internal/types"
)

// DefaultMaxClips is how many background clips a video is assembled from.
const DefaultMaxClips = 4

// VideoSource finds downloadable video links for a query.
type VideoSource interface {
	FindVideos(ctx context.Context, query string, count int) ([]string, error)
}

// ImageSource finds a downloadable photo link for a query.
type ImageSource interface {
	FindImage(ctx context.Context, query string) (string, error)
	Name() string
}

// Source supplies the visual assets for one content run.
type Source interface {
	Acquire(ctx context.Context, keyword, dir string) ([]types.MediaAsset, error)
}

// Acquirer walks the fallback chain: several clips, then one clip, then a single image.
type Acquirer struct {
	Videos     VideoSource
	Images     []ImageSource
	Translator Translator
	HTTP       *http.Client
	MaxClips   int
}

// NewAcquirer builds an Acquirer. Nil sources are skipped.
func NewAcquirer(videos VideoSource, translator Translator, images ...ImageSource) *Acquirer {
	if translator == nil {
		translator = PassThrough{}
	}
	var usable []ImageSource
	for _, img := range images {
		if img != nil {
			usable = append(usable, img)
		}
	}
	return &Acquirer{
		Videos:     videos,
		Images:     usable,
		Translator: translator,
		MaxClips:   DefaultMaxClips,
	}
}

// Acquire downloads visuals for keyword into dir.
// Returns *AssetUnavailableError when every step of the chain comes up empty.
func (a *Acquirer) Acquire(ctx context.Context, keyword, dir string) ([]types.MediaAsset, error) {
	translator := a.Translator
	if translator == nil {
		translator = PassThrough{}
	}
	query := translator.Translate(keyword)
	if query == "" {
		return nil, &AssetUnavailableError{Query: keyword, Kind: types.AssetVideo, Cause: fmt.Errorf("empty search query")}
	}

	var lastErr error
	if a.Videos != nil {
		clips, err := a.multiClip(ctx, query, dir)
		if err == nil {
			return clips, nil
		}
		log.Printf("[stock] multi-clip search for %q failed: %v; retrying with a single clip", query, err)

		clip, err := a.singleClip(ctx, query, dir)
		if err == nil {
			return []types.MediaAsset{clip}, nil
		}
		log.Printf("[stock] single clip for %q failed: %v; falling back to an image", query, err)
		lastErr = err
	}

	for _, src := range a.Images {
		img, err := a.image(ctx, src, query, dir)
		if err == nil {
			return []types.MediaAsset{img}, nil
		}
		log.Printf("[stock] %s image for %q failed: %v", src.Name(), query, err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no stock sources configured")
	}
	return nil, &AssetUnavailableError{Query: query, Kind: types.AssetImage, Cause: lastErr}
}

func (a *Acquirer) multiClip(ctx context.Context, query, dir string) ([]types.MediaAsset, error) {
	count := a.MaxClips
	if count < 1 {
		count = DefaultMaxClips
	}
	links, err := a.Videos.FindVideos(ctx, query, count)
	if err != nil {
		return nil, err
	}

	var clips []types.MediaAsset
	lastErr := errNoResults
	for i, link := range links {
		path := filepath.Join(dir, fmt.Sprintf("clip-%d.mp4", i+1))
		if err := Download(ctx, a.HTTP, link, path); err != nil {
			log.Printf("[stock] skipping clip %d/%d: %v", i+1, len(links), err)
			lastErr = err
			continue
		}
		clips = append(clips, types.MediaAsset{Path: path, Kind: types.AssetVideo})
	}
	if len(clips) == 0 {
		return nil, lastErr
	}
	return clips, nil
}

func (a *Acquirer) singleClip(ctx context.Context, query, dir string) (types.MediaAsset, error) {
	links, err := a.Videos.FindVideos(ctx, query, 1)
	if err != nil {
		return types.MediaAsset{}, err
	}
	if len(links) == 0 {
		return types.MediaAsset{}, errNoResults
	}
	path := filepath.Join(dir, "clip.mp4")
	if err := Download(ctx, a.HTTP, links[0], path); err != nil {
		return types.MediaAsset{}, err
	}
	return types.MediaAsset{Path: path, Kind: types.AssetVideo}, nil
}

func (a *Acquirer) image(ctx context.Context, src ImageSource, query, dir string) (types.MediaAsset, error) {
	link, err := src.FindImage(ctx, query)
	if err != nil {
		return types.MediaAsset{}, err
	}
	path := filepath.Join(dir, "image.jpg")
	if err := Download(ctx, a.HTTP, link, path); err != nil {
		return types.MediaAsset{}, err
	}
	return types.MediaAsset{Path: path, Kind: types.AssetImage}, nil
}
