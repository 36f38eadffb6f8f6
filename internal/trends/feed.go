// Package trends reads trending keywords from an RSS or Atom feed.
package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the Korean daily trending searches feed.
const DefaultFeedURL = "https://trends.google.com/trending/rss?geo=KR"

// DefaultTimeout bounds a feed fetch.
const DefaultTimeout = 15 * time.Second

// Item is one trending entry.
type Item struct {
	Title   string
	Link    string
	Summary string // description with markup removed
}

// Source supplies the current trend keyword.
type Source interface {
	Keyword(ctx context.Context) (string, error)
}

// FeedSource reads trends from a feed URL.
type FeedSource struct {
	URL     string
	Timeout time.Duration
	parser  *gofeed.Parser
}

// NewFeedSource creates a source for url, or DefaultFeedURL when empty.
func NewFeedSource(url string) *FeedSource {
	if strings.TrimSpace(url) == "" {
		url = DefaultFeedURL
	}
	return &FeedSource{URL: url, Timeout: DefaultTimeout, parser: gofeed.NewParser()}
}

// Items returns up to limit feed entries that carry a title. limit <= 0 returns all.
func (s *FeedSource) Items(ctx context.Context, limit int) ([]Item, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	feed, err := s.parser.ParseURLWithContext(s.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trend feed: %w", err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("trend feed contains no items")
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		items = append(items, Item{Title: title, Link: it.Link, Summary: plainText(desc)})
		if limit > 0 && len(items) == limit {
			break
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no titled items in trend feed")
	}
	return items, nil
}

// Keyword returns the top trending title.
func (s *FeedSource) Keyword(ctx context.Context) (string, error) {
	items, err := s.Items(ctx, 1)
	if err != nil {
		return "", err
	}
	return items[0].Title, nil
}
