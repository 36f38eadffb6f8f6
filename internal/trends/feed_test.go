package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Daily Search Trends</title>
    <item><title>  </title><link>https://example.com/0</link></item>
    <item><title>연말정산</title><link>https://example.com/1</link><description><![CDATA[<p>13월의 <b>월급</b></p><script>track()</script>]]></description></item>
    <item><title>금리 인하</title><link>https://example.com/2</link></item>
    <item><title>ETF</title><link>https://example.com/3</link></item>
  </channel>
</rss>`

func feedServer(t *testing.T, status int, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestFeedSource_Keyword(t *testing.T) {
	src := NewFeedSource(feedServer(t, http.StatusOK, sampleRSS))

	keyword, err := src.Keyword(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "연말정산", keyword)
}

func TestFeedSource_Items(t *testing.T) {
	src := NewFeedSource(feedServer(t, http.StatusOK, sampleRSS))

	items, err := src.Items(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Title: "연말정산", Link: "https://example.com/1", Summary: "13월의 월급"},
		{Title: "금리 인하", Link: "https://example.com/2"},
	}, items)

	all, err := src.Items(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFeedSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusInternalServerError, body: "boom"},
		{name: "empty feed", status: http.StatusOK, body: `<rss version="2.0"><channel><title>x</title></channel></rss>`},
		{name: "untitled items", status: http.StatusOK, body: `<rss version="2.0"><channel><item><link>https://e.com</link></item></channel></rss>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFeedSource(feedServer(t, tt.status, tt.body))
			_, err := src.Keyword(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestNewFeedSource_Default(t *testing.T) {
	assert.Equal(t, DefaultFeedURL, NewFeedSource(" ").URL)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "  ", want: ""},
		{name: "plain", in: "금리 인하 소식", want: "금리 인하 소식"},
		{name: "markup", in: "<div>\n  <a href=\"x\">ETF</a>\n  <span>급등</span>\n</div>", want: "ETF 급등"},
		{name: "drops scripts", in: "<p>적금</p><style>p{}</style>", want: "적금"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.in))
		})
	}
}
