// Package types provides type definitions for structured data used throughout the shorts studio.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StringList is a sequence of strings that also accepts a comma-joined string when decoded.
// Models frequently return list fields as "a, b, c" even when asked for an array.
type StringList []string

// UnmarshalJSON accepts either a JSON array of strings or a single comma-separated string.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*l = SplitList(joined)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*l = out
	return nil
}

// SplitList splits a comma-joined string into trimmed, non-empty items.
func SplitList(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ContentDraft is a generated, not yet persisted, content bundle for one topic.
type ContentDraft struct {
	Keyword           string     `json:"keyword" validate:"required"`
	Title             string     `json:"title" validate:"required"`
	TitleAlternatives StringList `json:"titleAlternatives"`
	Description       string     `json:"description"`
	Hashtags          StringList `json:"hashtags"`
	Script            string     `json:"script" validate:"required"`
	Hook              string     `json:"hook"`
}

// Validate checks the structural requirements of a draft.
// Length targets for script and hashtags are left to the model.
func (d *ContentDraft) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// Normalize trims text fields, keeps at most two title alternatives and canonicalizes hashtags.
func (d *ContentDraft) Normalize() {
	d.Keyword = strings.TrimSpace(d.Keyword)
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Script = strings.TrimSpace(d.Script)
	d.Hook = strings.TrimSpace(d.Hook)
	if len(d.TitleAlternatives) > 2 {
		d.TitleAlternatives = d.TitleAlternatives[:2]
	}
	d.Hashtags = NormalizeHashtags(d.Hashtags)
}

// Topic is a candidate keyword for the topic pool.
type Topic struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}
