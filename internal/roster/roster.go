// Package roster loads each source of recipients: the House, the Senate,
// the governors, NASA leadership, military leadership, the hard-coded
// executive roster and the read-only observer list. The House, Senate and
// governors sources load the persisted snapshot when one exists, otherwise
// scrape the index pages for persons; they then resolve each unresolved
// person's addresses through the candidate URL cascade, checkpointing
// after every resolved person. The NASA and military sources return their
// snapshot when one exists, otherwise bind every scraped person to a
// center address and persist the roster once at the end.
package roster

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
)

// ResolutionError reports a person whose addresses could not be resolved
// after exhausting every candidate URL path.
type ResolutionError struct {
	Person model.Person
	URL    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no addresses for %s (%s)", e.Person, e.URL)
}

// parseDoc parses fetched HTML.
func parseDoc(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// textFragments collects the text nodes under a selection, in document
// order, each trimmed, stripped of a trailing comma and uppercased.
func textFragments(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			s := strings.TrimSpace(n.Data)
			s = strings.TrimSuffix(s, ",")
			out = append(out, strings.ToUpper(s))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return out
}

// attrExtractors lists selectors whose address content lives in element
// attributes rather than text nodes (the Senate office map markers).
var attrExtractors = map[string][]string{
	"li": {"data-addr", "data-city"},
}

// extractLines probes the ordered selector candidates and returns the
// filtered text fragments of the first selector that yields any content.
// Probing in order keeps nested containers from interfering with each
// other.
func extractLines(p *parse.Parser, doc *goquery.Document, selectors []string) []string {
	for _, selector := range selectors {
		var lnes []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			var frags []string
			if attrs, ok := attrExtractors[selector]; ok {
				for _, attr := range attrs {
					s := strings.TrimSpace(sel.AttrOr(attr, ""))
					s = strings.TrimSuffix(s, ",")
					frags = append(frags, strings.ToUpper(s))
				}
			} else {
				frags = textFragments(sel)
			}
			for _, s := range frags {
				if p.Filter(s) {
					lnes = append(lnes, s)
				}
			}
		})
		if len(lnes) > 0 {
			return lnes
		}
	}
	return nil
}

// fetchAddresses fetches a URL, extracts address lines with the source's
// selectors, normalizes them with the source's rewrites and parses and
// standardizes the result. A nil, nil return is a parse miss; the caller
// tries the next candidate URL.
func fetchAddresses(ctx context.Context, a *app.App, url string, selectors []string, opt parse.PipelineOpts) ([]model.Address, error) {
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	lnes := extractLines(a.Parser, doc, selectors)
	lnes = a.Parser.Normalize(lnes, opt)

	adrs := a.Parser.ParseAddresses(lnes)
	if len(adrs) == 0 {
		return nil, nil
	}
	return a.USPS.StandardizeAddresses(ctx, adrs)
}

// candidateURL joins a landing URL and a relative candidate path.
func candidateURL(base, path string) string {
	if path == "" {
		return base
	}
	return base + "/" + path
}

// rewritesFor merges the built-in table with any operator-supplied
// rewrites for a subject.
func rewritesFor(a *app.App, builtin parse.RewriteTable, source, subject string) []parse.Rewrite {
	rws := builtin.Lookup(source, subject)
	if a.Rewrites != nil {
		rws = append(rws, a.Rewrites.Lookup(source, subject)...)
	}
	return rws
}
