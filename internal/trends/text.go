package trends

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText strips markup from a feed description and collapses it to one line.
// Input that fails to parse is returned trimmed.
func plainText(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
