// Package generation drafts shorts content and topic ideas with a text model.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/shorts-studio/internal/llm"
	"github.com/jonathan/shorts-studio/internal/prompts"
	"github.com/jonathan/shorts-studio/internal/schemas"
	"github.com/jonathan/shorts-studio/internal/subtitles"
	"github.com/jonathan/shorts-studio/internal/types"
)

// DraftTemperature is used for content drafting.
const DraftTemperature = 0.8

// Generator drafts content for a topic keyword.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate drafts title options, description, hashtags, script and hook for keyword.
// trendKeyword is optional context. A missing or malformed response is a *llm.ModelError;
// the call is not retried here.
func (g *Generator) Generate(ctx context.Context, keyword, trendKeyword string) (*types.ContentDraft, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}

	prompt, err := buildDraftPrompt(keyword, strings.TrimSpace(trendKeyword))
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Op:          "generate",
		System:      prompts.MustGet(prompts.GenerationFile, "system"),
		Prompt:      prompt,
		Tier:        llm.TierStandard,
		Temperature: DraftTemperature,
	}

	var draft types.ContentDraft
	if err := llm.GenerateInto(ctx, g.client, req, schemas.Draft, &draft); err != nil {
		return nil, err
	}

	draft.Keyword = keyword
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, &llm.ModelError{Op: req.Op, Message: "draft is incomplete", Cause: err}
	}
	if draft.Hook == "" {
		draft.Hook = FirstSentence(draft.Script)
	}

	return &draft, nil
}

func buildDraftPrompt(keyword, trendKeyword string) (string, error) {
	trendContext := ""
	if trendKeyword != "" {
		trendContext = prompts.Format(
			prompts.MustGet(prompts.GenerationFile, "trend_context"),
			map[string]string{"TrendKeyword": trendKeyword},
		)
	}
	return prompts.Render(prompts.GenerationFile, "draft", map[string]string{
		"Keyword":      keyword,
		"TrendContext": trendContext,
	})
}

// FirstSentence returns the script up to and including its first sentence terminator.
func FirstSentence(script string) string {
	script = strings.TrimSpace(script)
	if idx := strings.IndexAny(script, subtitles.SentenceTerminators); idx >= 0 {
		_, size := utf8.DecodeRuneInString(script[idx:])
		return strings.TrimSpace(script[:idx+size])
	}
	return script
}

// TopicGenerator proposes keywords for the topic pool.
type TopicGenerator struct {
	client llm.Client
}

// NewTopicGenerator creates a TopicGenerator backed by client.
func NewTopicGenerator(client llm.Client) *TopicGenerator {
	return &TopicGenerator{client: client}
}

// Categories are the topic pool categories offered by the CLI.
var Categories = []string{"경제·생활", "IT·디지털", "직장인", "생활·기타"}

// Generate proposes count topics for category. The model may answer with a bare
// array or an object holding a "topics" array.
func (g *TopicGenerator) Generate(ctx context.Context, category string, count int) ([]types.Topic, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	prompt, err := prompts.Render(prompts.TopicsFile, "topics", map[string]string{
		"Category": category,
		"Count":    strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Op:          "topics",
		System:      prompts.MustGet(prompts.TopicsFile, "system"),
		Prompt:      prompt,
		Tier:        llm.TierLite,
		Temperature: DraftTemperature,
	}

	var raw json.RawMessage
	if err := llm.GenerateInto(ctx, g.client, req, schemas.Topics, &raw); err != nil {
		return nil, err
	}

	topics, err := decodeTopics(raw)
	if err != nil {
		return nil, &llm.ModelError{Op: req.Op, Message: "unexpected topic list shape", Cause: err}
	}
	return topics, nil
}

func decodeTopics(raw json.RawMessage) ([]types.Topic, error) {
	var topics []types.Topic
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &topics); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Topics []types.Topic `json:"topics"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		topics = wrapped.Topics
	}

	out := make([]types.Topic, 0, len(topics))
	for _, t := range topics {
		t.Keyword = strings.TrimSpace(t.Keyword)
		t.Description = strings.TrimSpace(t.Description)
		if t.Keyword != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no topics in response")
	}
	return out, nil
}
