package query

import (
	"bytes"
	"fmt"
	"groqkit/common"
	"strings"
)

// SearchParam is the placeholder bound to the normalised search term.
const SearchParam = "searchTerm"

// SearchFields are the attributes a full-text search matches against.
var SearchFields = []string{"title", "description", "tags"}

// NormalizeSearchTerm prepares a caller's search input for the match
// operator: whitespace is collapsed and every token gets a trailing "*" so
// that prefixes match. "sheller" becomes "sheller*".
func NormalizeSearchTerm(term string) (string, error) {
	tokens := strings.Fields(term)
	if len(tokens) == 0 {
		return "", common.InvalidOption("term", "must not be empty")
	}
	for idx, tok := range tokens {
		if !strings.HasSuffix(tok, "*") {
			tokens[idx] = tok + "*"
		}
	}
	return strings.Join(tokens, " "), nil
}

// Match is a full-text condition over several fields against one parameter.
type Match struct {
	Fields []string
	Param  string
}

// Search returns the default Match over SearchFields.
func Search() Match {
	return Match{Fields: SearchFields, Param: SearchParam}
}

func (m Match) terms() []string {
	terms := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		terms = append(terms, fmt.Sprintf("%s match $%s", f, m.Param))
	}
	return terms
}

func (m Match) Render() string {
	return "(" + strings.Join(m.terms(), " || ") + ")"
}

func (m Match) Placeholders() []string { return []string{m.Param} }

// Score renders the score(...) pipe stage ranking matches; the store sets
// _score on each result.
func (m Match) Score() string {
	var buffer bytes.Buffer
	buffer.WriteString("score(")
	buffer.WriteString(strings.Join(m.terms(), ", "))
	buffer.WriteString(")")
	return buffer.String()
}
