package stock

import "strings"

// Translator turns a content keyword into a stock search query.
type Translator interface {
	Translate(keyword string) string
}

// PassThrough searches with the keyword as given.
type PassThrough struct{}

// Translate returns keyword trimmed.
func (PassThrough) Translate(keyword string) string {
	return strings.TrimSpace(keyword)
}

// MapTranslator looks keywords up in a fixed table and passes unknown ones through.
type MapTranslator map[string]string

// DefaultTranslations covers the finance keywords that search poorly in Korean.
func DefaultTranslations() MapTranslator {
	return MapTranslator{
		"신용카드":  "credit card",
		"소득공제":  "tax deduction",
		"카카오뱅크": "banking",
		"정부지원금": "government support",
	}
}

// Translate returns the mapped query for keyword, or keyword itself.
func (m MapTranslator) Translate(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if q, ok := m[keyword]; ok && q != "" {
		return q
	}
	return keyword
}

// Merge returns a copy of m overlaid with extra.
func (m MapTranslator) Merge(extra map[string]string) MapTranslator {
	out := make(MapTranslator, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
