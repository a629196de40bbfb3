// Package css parses the subset of CSS used to describe document styles:
// simple selectors, @media blocks, @font-face, @page and @import.
package css

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// quote escapes s for use inside CSS double quotes.
func quote(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	b.WriteByte('"')
	for _, r := range s {
		if r == '\\' || r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// MediaQuery is a parsed @media condition: "[not] type [and [not] type]...".
type MediaQuery struct {
	Raw      string
	Type     string
	Negated  bool
	Features []MediaFeature
}

type MediaFeature struct {
	Name    string
	Negated bool
}

func matchMedium(name, medium string) bool {
	switch name {
	case "all":
		return true
	case medium:
		return true
	}
	return false
}

// Evaluate reports whether query applies to the medium ("print" for page
// layout). Empty query always applies.
func (mq MediaQuery) Evaluate(medium string) bool {
	if mq.Type == "" {
		return true
	}
	medium = strings.ToLower(medium)
	if matchMedium(mq.Type, medium) == mq.Negated {
		return false
	}
	for _, f := range mq.Features {
		if matchMedium(f.Name, medium) == f.Negated {
			return false
		}
	}
	return true
}

// Value is a parsed property value.
type Value struct {
	Raw     string  // original text, e.g. "1.2em", "bold", "#ff0000"
	Value   float64 // numeric component
	Unit    string  // "em", "px", "%", "pt"...
	Keyword string  // keyword, string or function text
}

// IsNumeric reports whether the value has a numeric component, explicit
// zeros included.
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Keyword != "" {
		return false
	}
	if v.Value != 0 {
		return true
	}
	if v.Raw != "" {
		c := rune(v.Raw[0])
		return unicode.IsDigit(c) || c == '.' || c == '-' || c == '+'
	}
	return false
}

func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Selector is a simple selector: element, .class or element.class.
type Selector struct {
	Raw     string
	Element string
	Class   string
}

func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// Name returns the name a style is registered under, class wins over element.
func (s Selector) Name() string {
	if s.Class != "" {
		return s.Class
	}
	return s.Element
}

// Rule is a single selector with its declarations.
type Rule struct {
	Selector   Selector
	Properties map[string]Value
}

func (r Rule) Property(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// FontFace is an @font-face declaration.
type FontFace struct {
	Family string
	Src    string
	Style  string
	Weight string
}

// URL extracts the first url() reference from Src.
func (ff FontFace) URL() string {
	m := urlPattern.FindStringSubmatch(ff.Src)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return strings.TrimSpace(m[2])
}

// PageRule is an @page declaration (size and margins of the media box).
type PageRule struct {
	Properties map[string]Value
}

// MediaBlock is a @media block with its rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// Item is a single top-level statement. Exactly one field is set.
type Item struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	FontFace   *FontFace
	Page       *PageRule
	Import     *string
}

// Stylesheet keeps parsed statements in source order.
type Stylesheet struct {
	Items    []Item
	Warnings []string
}

// Rules returns top-level rules together with the rules of @media blocks
// which apply to medium, in source order.
func (s *Stylesheet) Rules(medium string) []Rule {
	var out []Rule
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			out = append(out, *item.Rule)
		case item.MediaBlock != nil && item.MediaBlock.Query.Evaluate(medium):
			out = append(out, item.MediaBlock.Rules...)
		}
	}
	return out
}

// Imports returns @import URLs in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// FontFaces returns @font-face declarations having family name.
func (s *Stylesheet) FontFaces() []FontFace {
	var faces []FontFace
	for _, item := range s.Items {
		if item.FontFace != nil && item.FontFace.Family != "" {
			faces = append(faces, *item.FontFace)
		}
	}
	return faces
}

// Pages returns @page declarations in source order.
func (s *Stylesheet) Pages() []PageRule {
	var pages []PageRule
	for _, item := range s.Items {
		if item.Page != nil {
			pages = append(pages, *item.Page)
		}
	}
	return pages
}

var urlPattern = regexp.MustCompile(`url\s*\(\s*(?:["']([^"']*)["']|([^)"]*))\s*\)`)

// RewriteURLs applies fn to every @import and @font-face reference, used to
// make references relative to the stylesheet location.
func (s *Stylesheet) RewriteURLs(fn func(string) string) {
	for i := range s.Items {
		item := &s.Items[i]
		switch {
		case item.Import != nil:
			u := fn(*item.Import)
			item.Import = &u
		case item.FontFace != nil:
			item.FontFace.Src = urlPattern.ReplaceAllStringFunc(item.FontFace.Src, func(match string) string {
				m := urlPattern.FindStringSubmatch(match)
				u := m[1]
				if u == "" {
					u = strings.TrimSpace(m[2])
				}
				return "url(" + quote(fn(u)) + ")"
			})
		}
	}
}

// WriteTo writes the stylesheet in source order, properties of every block
// sorted by name.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for i, item := range s.Items {
		if i > 0 {
			cw.printf("\n")
		}
		switch {
		case item.Import != nil:
			cw.printf("@import url(%s);\n", quote(*item.Import))
		case item.FontFace != nil:
			ff := item.FontFace
			cw.printf("@font-face {\n")
			cw.printf("  font-family: %s;\n", quote(ff.Family))
			for _, kv := range [][2]string{{"src", ff.Src}, {"font-style", ff.Style}, {"font-weight", ff.Weight}} {
				if kv[1] != "" {
					cw.printf("  %s: %s;\n", kv[0], kv[1])
				}
			}
			cw.printf("}\n")
		case item.Page != nil:
			cw.printf("@page {\n")
			cw.properties("  ", item.Page.Properties)
			cw.printf("}\n")
		case item.MediaBlock != nil:
			cw.printf("@media %s {\n", item.MediaBlock.Query.Raw)
			for j, r := range item.MediaBlock.Rules {
				if j > 0 {
					cw.printf("\n")
				}
				cw.printf("  %s {\n", r.Selector.Raw)
				cw.properties("    ", r.Properties)
				cw.printf("  }\n")
			}
			cw.printf("}\n")
		case item.Rule != nil:
			cw.printf("%s {\n", item.Rule.Selector.Raw)
			cw.properties("  ", item.Rule.Properties)
			cw.printf("}\n")
		}
	}
	return cw.n, cw.err
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) printf(format string, args ...any) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprintf(cw.w, format, args...)
	cw.n += int64(n)
	cw.err = err
}

func (cw *countingWriter) properties(indent string, props map[string]Value) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cw.printf("%s%s: %s;\n", indent, name, props[name].Raw)
	}
}
