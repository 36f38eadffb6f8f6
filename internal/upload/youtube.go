// Package upload publishes finished videos.
package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Visibility values accepted by the platform.
const (
	VisibilityPrivate  = "private"
	VisibilityUnlisted = "unlisted"
	VisibilityPublic   = "public"
)

// DefaultCategoryID is "People & Blogs".
const DefaultCategoryID = "22"

// maxTitleRunes is the platform's title limit.
const maxTitleRunes = 100

// watchURL is the public URL prefix for an uploaded video id.
const watchURL = "https://www.youtube.com/watch?v="

// Request describes one upload.
type Request struct {
	Path        string `validate:"required"`
	Title       string `validate:"required"`
	Description string
	Tags        []string
	Visibility  string `validate:"omitempty,oneof=private unlisted public"`
	CategoryID  string
}

// Uploader publishes a video file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, req Request) (string, error)
}

// YouTubeConfig carries OAuth client credentials and a long-lived refresh token.
type YouTubeConfig struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	DefaultLanguage string
}

// YouTubeUploader uploads through the YouTube Data API v3.
type YouTubeUploader struct {
	svc      *youtube.Service
	language string
	validate *validator.Validate
}

// NewYouTubeUploader authenticates with the refresh token and builds the API service.
func NewYouTubeUploader(ctx context.Context, cfg YouTubeConfig) (*YouTubeUploader, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("youtube client id, client secret and refresh token are required")
	}
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	// expired on purpose so the first call refreshes
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken, Expiry: time.Now().Add(-time.Hour)}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	u := NewYouTubeUploaderWithService(svc)
	u.language = cfg.DefaultLanguage
	return u, nil
}

// NewYouTubeUploaderWithService wraps an existing service.
func NewYouTubeUploaderWithService(svc *youtube.Service) *YouTubeUploader {
	return &YouTubeUploader{svc: svc, validate: validator.New()}
}

// Upload sends the file with snippet and status metadata. Visibility defaults to private.
func (u *YouTubeUploader) Upload(ctx context.Context, req Request) (string, error) {
	if err := u.validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid upload request: %w", err)
	}
	if req.Visibility == "" {
		req.Visibility = VisibilityPrivate
	}
	if req.CategoryID == "" {
		req.CategoryID = DefaultCategoryID
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] uploading %q (%.1f MB)", req.Title, float64(fi.Size())/1024/1024)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                truncateRunes(req.Title, maxTitleRunes),
			Description:          req.Description,
			Tags:                 req.Tags,
			CategoryId:           req.CategoryID,
			DefaultLanguage:      u.language,
			DefaultAudioLanguage: u.language,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: req.Visibility,
		},
	}

	uploaded, err := u.svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}
	if uploaded.Id == "" {
		return "", fmt.Errorf("youtube upload: response carried no video id")
	}

	url := VideoURL(uploaded.Id)
	log.Printf("[upload] uploaded %s", url)
	return url, nil
}

// VideoURL returns the watch URL for a video id.
func VideoURL(id string) string {
	return watchURL + id
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
