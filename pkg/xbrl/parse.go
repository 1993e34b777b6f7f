// Package xbrl implements parsing of the tagged-XML grammar used in
// machine-readable annual reports published to the Danish business
// registry. Filings span several taxonomy vintages with incompatible
// namespaces, so parsing is deliberately lenient: one pass over the
// document collects every context block and every tagged fact it can
// recognize, regardless of namespace prefix.
package xbrl

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Context defines the time period a fact applies to: either a duration
// (income statement) or an instant (balance sheet). Contexts are scoped
// to a single document parse and discarded afterwards.
type Context struct {
	ID        string
	StartDate string
	EndDate   string
	Instant   string
}

// IsDuration reports whether the context covers a date range.
func (c *Context) IsDuration() bool {
	return c.StartDate != "" && c.EndDate != ""
}

// Unit defines the measurement unit for numeric facts. Scale follows the
// decimals exponent convention: a scale of -3 means values are reported
// in thousands and multiply by 10^3. The unit table is an arena scoped
// to one parse; different documents may define the same unit id
// differently.
type Unit struct {
	ID      string
	Measure string
	Scale   int
}

// Fact is one tagged value: the raw string content, the owning context,
// and optional unit and precision references.
type Fact struct {
	Tag        string
	Value      string
	ContextRef string
	UnitRef    string
	Decimals   string
	Scale      string // inline-fact scale attribute, power of ten
}

// TagIndex holds everything extracted from one document: facts bucketed
// by lowercased tag name, contexts by id, and the per-parse unit table.
// Built once per document, cost linear in document size, then discarded.
type TagIndex struct {
	Facts    map[string][]Fact
	Contexts map[string]*Context
	Units    map[string]Unit
}

// Lookup returns all facts recorded under a tag name.
func (idx *TagIndex) Lookup(tag string) []Fact {
	return idx.Facts[strings.ToLower(tag)]
}

// Context resolves a context reference, nil when undeclared.
func (idx *TagIndex) Context(ref string) *Context {
	return idx.Contexts[ref]
}

// Build parses one document into a TagIndex in a single pass. The html
// parser is used instead of a strict XML decoder because filings are
// frequently malformed: undeclared namespaces, unclosed elements and
// stray markup are all survivable here where encoding/xml would bail.
// Element and attribute names come back lowercased, which is also how
// the index is keyed.
func Build(r io.Reader) (*TagIndex, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	idx := &TagIndex{
		Facts:    make(map[string][]Fact),
		Contexts: make(map[string]*Context),
		Units:    make(map[string]Unit),
	}
	collect(doc, idx)
	return idx, nil
}

func collect(n *html.Node, idx *TagIndex) {
	if n.Type == html.ElementNode {
		name := strings.ToLower(n.Data)
		switch {
		case name == "xbrli:context" || name == "context" || strings.HasSuffix(name, ":context"):
			if ctx := parseContext(n); ctx.ID != "" {
				idx.Contexts[ctx.ID] = ctx
			}
			return
		case name == "xbrli:unit" || name == "unit" || strings.HasSuffix(name, ":unit"):
			if u := parseUnit(n); u.ID != "" {
				idx.Units[u.ID] = u
			}
			return
		case name == "ix:nonfraction" || name == "ix:nonnumeric":
			// Inline facts carry their concept name in the name
			// attribute rather than the element name.
			if f, ok := inlineFact(n); ok {
				idx.Facts[f.Tag] = append(idx.Facts[f.Tag], f)
			}
			return
		default:
			if f, ok := plainFact(n, name); ok {
				idx.Facts[f.Tag] = append(idx.Facts[f.Tag], f)
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, idx)
	}
}

// plainFact recognizes leaf fact elements of the form
// <ns:TagName contextRef=... [unitRef=...] [decimals=...]>value</ns:TagName>.
// Legacy filings omit the namespace prefix entirely, so the only
// requirement is a contextRef attribute on a leaf element.
func plainFact(n *html.Node, name string) (Fact, bool) {
	contextRef := attr(n, "contextref")
	if contextRef == "" || !isLeaf(n) {
		return Fact{}, false
	}
	return Fact{
		Tag:        name,
		Value:      strings.TrimSpace(text(n)),
		ContextRef: contextRef,
		UnitRef:    attr(n, "unitref"),
		Decimals:   attr(n, "decimals"),
	}, true
}

func inlineFact(n *html.Node) (Fact, bool) {
	name := strings.ToLower(attr(n, "name"))
	if name == "" {
		return Fact{}, false
	}
	return Fact{
		Tag:        name,
		Value:      strings.TrimSpace(text(n)),
		ContextRef: attr(n, "contextref"),
		UnitRef:    attr(n, "unitref"),
		Decimals:   attr(n, "decimals"),
		Scale:      attr(n, "scale"),
	}, true
}

// parseContext reads a context block. Child element names are matched by
// suffix so that xbrli:startDate, c:startDate and bare startDate all
// resolve the same way.
func parseContext(n *html.Node) *Context {
	ctx := &Context{ID: attr(n, "id")}
	walk(n, func(child *html.Node) {
		name := strings.ToLower(child.Data)
		switch {
		case strings.HasSuffix(name, "startdate"):
			ctx.StartDate = strings.TrimSpace(text(child))
		case strings.HasSuffix(name, "enddate"):
			ctx.EndDate = strings.TrimSpace(text(child))
		case strings.HasSuffix(name, "instant"):
			ctx.Instant = strings.TrimSpace(text(child))
		}
	})
	return ctx
}

func parseUnit(n *html.Node) Unit {
	u := Unit{ID: attr(n, "id")}
	walk(n, func(child *html.Node) {
		name := strings.ToLower(child.Data)
		switch {
		case strings.HasSuffix(name, "measure"):
			if u.Measure == "" {
				u.Measure = strings.TrimSpace(text(child))
			}
		case strings.HasSuffix(name, "scale"):
			u.Scale = atoiOrZero(strings.TrimSpace(text(child)))
		}
	})
	if u.Scale == 0 && mentionsThousands(u.ID) {
		u.Scale = -3
	}
	return u
}

// mentionsThousands is the heuristic for units whose id declares its
// scale in words rather than a scale element.
func mentionsThousands(id string) bool {
	lowered := strings.ToLower(id)
	return strings.Contains(lowered, "thousand") || strings.Contains(lowered, "tusind")
}

func atoiOrZero(s string) int {
	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return sign * n
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.ToLower(a.Key) == key {
			return a.Val
		}
	}
	return ""
}

func isLeaf(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

func text(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walk(c, fn)
	}
}
