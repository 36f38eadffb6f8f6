package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func newTestUploader(t *testing.T, handler http.HandlerFunc) *YouTubeUploader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return NewYouTubeUploaderWithService(svc)
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content-1.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video bytes"), 0o644))
	return path
}

func TestYouTubeUploader_Upload(t *testing.T) {
	var gotPart []string
	var gotBody string
	u := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "videos")
		gotPart = r.URL.Query()["part"]
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc123"}`))
	})

	url, err := u.Upload(context.Background(), Request{
		Path:        writeVideo(t),
		Title:       "ETF 첫걸음",
		Description: "설명",
		Tags:        []string{"ETF", "투자"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", url)
	assert.Equal(t, []string{"snippet", "status"}, gotPart)
	assert.Contains(t, gotBody, `"privacyStatus":"private"`)
	assert.Contains(t, gotBody, `"categoryId":"22"`)
	assert.Contains(t, gotBody, "video bytes")
}

func TestYouTubeUploader_InvalidRequest(t *testing.T) {
	called := false
	u := newTestUploader(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})

	tests := []struct {
		name string
		req  Request
	}{
		{name: "missing title", req: Request{Path: "x.mp4"}},
		{name: "missing path", req: Request{Title: "t"}},
		{name: "bad visibility", req: Request{Path: "x.mp4", Title: "t", Visibility: "friends"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Upload(context.Background(), tt.req)
			assert.ErrorContains(t, err, "invalid upload request")
		})
	}
	assert.False(t, called)
}

func TestYouTubeUploader_MissingFile(t *testing.T) {
	u := newTestUploader(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})
	_, err := u.Upload(context.Background(), Request{Path: filepath.Join(t.TempDir(), "none.mp4"), Title: "t"})
	assert.ErrorContains(t, err, "open video file")
}

func TestYouTubeUploader_APIError(t *testing.T) {
	u := newTestUploader(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})
	_, err := u.Upload(context.Background(), Request{Path: writeVideo(t), Title: "t"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "youtube upload:"))
}

func TestNewYouTubeUploader_RequiresCredentials(t *testing.T) {
	_, err := NewYouTubeUploader(context.Background(), YouTubeConfig{ClientID: "id"})
	assert.Error(t, err)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "가나", truncateRunes("가나다", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 5))
}
