// Package content turns raw page markup into normalized text, links and metadata.
package content

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
)

// DefaultTitle is used when a page has no usable title element.
const DefaultTitle = "Untitled"

// Page is the normalized view of a document.
type Page struct {
	Metadata map[string]string
	Title    string
	Text     string
	Images   []string
	Links    []string
}

// Extract parses markup fetched from pageURL. It never fails: malformed
// markup yields whatever the HTML5 parser could recover.
func Extract(markup, pageURL string) *Page {
	p := &Page{Title: DefaultTitle, Metadata: map[string]string{}}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return p
	}

	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}

	var body *html.Node
	titleSet := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if !titleSet {
					titleSet = true
					if t := htmlutil.CollapseSpace(nodeText(n, false)); t != "" {
						p.Title = t
					}
				}
			case "body":
				if body == nil {
					body = n
				}
			case "img":
				if src := attr(n, "src"); src != "" {
					p.Images = append(p.Images, Resolve(base, src))
				}
			case "a":
				if href := attr(n, "href"); href != "" {
					p.Links = append(p.Links, Resolve(base, href))
				}
			case "meta":
				key := attr(n, "name")
				if key == "" {
					key = attr(n, "property")
				}
				if c, ok := attrOK(n, "content"); ok && key != "" {
					p.Metadata[key] = c
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	root := body
	if root == nil {
		root = doc
	}
	p.Text = htmlutil.CollapseSpace(nodeText(root, true))
	return p
}

// Resolve makes ref absolute against base. Absolute references are kept as-is;
// anything that cannot be resolved is returned unchanged.
func Resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() || base == nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// nodeText concatenates the text below n, optionally skipping script and style.
func nodeText(n *html.Node, skipCode bool) string {
	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if skipCode && n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return strings.TrimSpace(v)
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
