package plate

import "regexp"

// Grammar validates cleaned plate text for one region.
type Grammar struct {
	Name    string
	Pattern *regexp.Regexp
}

// IndianGrammar: state code, district number, one or two series letters, four digits (e.g. MH02DE1433).
var IndianGrammar = Grammar{
	Name:    "indian",
	Pattern: regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{1,2}[0-9]{4}$`),
}

// Match reports whether already-cleaned text satisfies the grammar.
func (g Grammar) Match(text string) bool {
	return g.Pattern.MatchString(text)
}
