package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a queryable document from markup. Malformed markup is
// repaired by the HTML5 parser, so an error only means the reader failed.
func Parse(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// SelectText returns the collapsed text of the first node matching selector.
func SelectText(doc *goquery.Document, selector string) string {
	if doc == nil {
		return ""
	}
	return CollapseSpace(doc.Find(selector).First().Text())
}

// MetaContent returns the content of the first meta tag whose name or
// property equals key, ignoring case.
func MetaContent(doc *goquery.Document, key string) string {
	if doc == nil {
		return ""
	}
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(metaKey(s), key) {
			return true
		}
		if c, ok := s.Attr("content"); ok {
			content = strings.TrimSpace(c)
			return false
		}
		return true
	})
	return content
}

// Meta is a meta tag with a name-or-property and a content attribute.
type Meta struct {
	Key     string
	Content string
}

// Metas lists every meta tag that has both a key and content, in document order.
func Metas(doc *goquery.Document) []Meta {
	if doc == nil {
		return nil
	}
	var out []Meta
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := metaKey(s)
		content, ok := s.Attr("content")
		if key == "" || !ok {
			return
		}
		out = append(out, Meta{Key: key, Content: content})
	})
	return out
}

func metaKey(s *goquery.Selection) string {
	if name, ok := s.Attr("name"); ok && name != "" {
		return name
	}
	prop, _ := s.Attr("property")
	return prop
}
