package parse

import "strings"

// CleanName strips honorifics, post-nominals, quoted or parenthesized
// nicknames and roman numerals from a full name, replaces the right
// single quotation mark with an apostrophe, normalizes whitespace and
// trims trailing commas:
//
//	"Dr. Jane A. Doe Ph.D." -> "Jane A. Doe"
func (p *Parser) CleanName(fullName string) string {
	s := p.NameAffectation.ReplaceAllString(fullName, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u2019", "'")
	s = strings.ReplaceAll(s, "\u200b", "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, "  ", " ")
}

// CleanSplitName cleans a full name and splits it into the first name and
// the rest, supporting two-word last names: "John Quincy Public".
func (p *Parser) CleanSplitName(fullName string) (string, string) {
	s := p.CleanName(fullName)
	first, rest, ok := strings.Cut(s, " ")
	if !ok {
		return "", ""
	}
	return first, rest
}
