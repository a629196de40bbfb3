package css

import (
	"bytes"
	"maps"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse parses CSS text. Unsupported constructs are skipped and noted in
// Warnings. Optional source names the input in debug logs.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			switch rule := strings.ToLower(string(data)); rule {
			case "@media":
				mq := parseMediaQuery(parser.Values())
				rules := p.parseMediaRules(parser, sheet)
				p.log.Debug("Parsed @media block", zap.String("query", mq.Raw), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, Item{MediaBlock: &MediaBlock{Query: mq, Rules: rules}})
			case "@font-face":
				ff := p.parseFontFace(parser)
				sheet.Items = append(sheet.Items, Item{FontFace: &ff})
			case "@page":
				if sel := strings.TrimSpace(tokensText(parser.Values())); sel != "" {
					sheet.Warnings = append(sheet.Warnings, "page selectors are ignored: "+sel)
				}
				sheet.Items = append(sheet.Items, Item{Page: &PageRule{Properties: p.parseDeclarations(parser)}})
			default:
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+rule)
				p.skipBlock(parser)
			}

		case css.AtRuleGrammar:
			if strings.ToLower(string(data)) == "@import" {
				if u := importURL(parser.Values()); u != "" {
					sheet.Items = append(sheet.Items, Item{Import: &u})
					p.log.Debug("Parsed @import", zap.String("url", u))
				}
				continue
			}
			p.log.Debug("Skipping at-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(data, parser.Values())
			props := p.parseDeclarations(parser)
			for _, r := range p.makeRules(selectors, props, sheet) {
				sheet.Items = append(sheet.Items, Item{Rule: &r})
			}
		}
	}
}

func (p *Parser) makeRules(selectors []string, props map[string]Value, sheet *Stylesheet) []Rule {
	var rules []Rule
	for _, s := range selectors {
		sel, ok := parseSelector(s)
		if !ok {
			sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+s)
			p.log.Debug("Skipping selector", zap.String("selector", s))
			continue
		}
		rules = append(rules, Rule{Selector: sel, Properties: maps.Clone(props)})
	}
	return rules
}

func importURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var out []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseSelector accepts element, .class and element.class selectors only:
// styles are flat, so combinators, attributes and pseudo classes have no
// meaning here.
func parseSelector(s string) (Selector, bool) {
	sel := Selector{Raw: s}
	if s == "" || strings.ContainsAny(s, " \t\n+~>[]:*#") {
		return sel, false
	}
	element, class, found := strings.Cut(s, ".")
	if found && (class == "" || strings.Contains(class, ".")) {
		return sel, false
	}
	sel.Element, sel.Class = strings.ToLower(element), class
	return sel, sel.IsSimple()
}

// parseDeclarations collects declarations until the end of the block.
func (p *Parser) parseDeclarations(parser *css.Parser) map[string]Value {
	props := make(map[string]Value)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar, css.EndAtRuleGrammar:
			return props
		case css.DeclarationGrammar:
			if values := parser.Values(); len(values) > 0 {
				props[strings.ToLower(string(data))] = parseValue(values)
			}
		}
	}
}

func tokensText(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func parseValue(tokens []css.Token) Value {
	val := Value{Raw: tokensText(tokens)}

	var significant []css.Token
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			significant = append(significant, t)
		}
	}
	if len(significant) != 1 {
		val.Keyword = val.Raw
		return val
	}

	t := significant[0]
	switch t.TokenType {
	case css.DimensionToken:
		val.Value, val.Unit = parseDimension(string(t.Data))
	case css.PercentageToken:
		val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
		val.Unit = "%"
	case css.NumberToken:
		val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
	case css.IdentToken:
		val.Keyword = strings.ToLower(string(t.Data))
	case css.StringToken:
		val.Keyword = unquote(string(t.Data))
	default:
		val.Keyword = string(t.Data)
	}
	return val
}

func parseDimension(s string) (float64, string) {
	end := 0
	for i, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+' {
			break
		}
		end = i + 1
	}
	if end == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:end], 64)
	return num, strings.ToLower(s[end:])
}

func (p *Parser) skipBlock(parser *css.Parser) {
	for depth := 1; depth > 0; {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func (p *Parser) parseFontFace(parser *css.Parser) FontFace {
	var ff FontFace
	for name, v := range p.parseDeclarations(parser) {
		switch name {
		case "font-family":
			ff.Family = unquote(v.Raw)
		case "src":
			ff.Src = v.Raw
		case "font-style":
			ff.Style = strings.ToLower(v.Raw)
		case "font-weight":
			ff.Weight = strings.ToLower(v.Raw)
		}
	}
	return ff
}

func parseMediaQuery(tokens []css.Token) MediaQuery {
	mq := MediaQuery{Raw: tokensText(tokens)}

	var idents []string
	for _, t := range tokens {
		if t.TokenType == css.IdentToken {
			idents = append(idents, strings.ToLower(string(t.Data)))
		}
	}
	if len(idents) == 0 {
		return mq
	}

	i := 0
	if idents[i] == "not" {
		mq.Negated = true
		i++
	}
	if i < len(idents) {
		mq.Type = idents[i]
		i++
	}
	for i < len(idents) {
		if idents[i] != "and" {
			i++
			continue
		}
		i++
		var f MediaFeature
		if i < len(idents) && idents[i] == "not" {
			f.Negated = true
			i++
		}
		if i >= len(idents) {
			break
		}
		f.Name = idents[i]
		mq.Features = append(mq.Features, f)
		i++
	}
	return mq
}

func (p *Parser) parseMediaRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules
		case css.BeginRulesetGrammar:
			selectors := splitSelectors(data, parser.Values())
			rules = append(rules, p.makeRules(selectors, p.parseDeclarations(parser), sheet)...)
		}
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
