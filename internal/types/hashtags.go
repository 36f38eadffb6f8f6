package types

import "strings"

// NormalizeHashtags trims each tag, drops empties and duplicates and ensures a single "#" prefix.
// It is idempotent: normalizing its own output returns the same slice contents.
func NormalizeHashtags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimLeft(tag, "#")
		tag = strings.Join(strings.Fields(tag), "")
		if tag == "" {
			continue
		}
		tag = "#" + tag
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ParseHashtags normalizes a hashtag field that may be comma-joined or space-joined.
func ParseHashtags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	return NormalizeHashtags(fields)
}

// JoinHashtags renders hashtags the way records store them: space separated.
func JoinHashtags(tags []string) string {
	return strings.Join(NormalizeHashtags(tags), " ")
}

// TagsFromHashtags converts a stored hashtag string into upload tags without the "#" prefix.
// Only "#"-prefixed tokens are kept.
func TagsFromHashtags(stored string) []string {
	var tags []string
	for _, field := range strings.Fields(stored) {
		if !strings.HasPrefix(field, "#") {
			continue
		}
		if tag := strings.TrimLeft(field, "#"); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
