package placeholder

import (
	"regexp"
	"strings"
)

// Prefix starts every placeholder.
const Prefix = "%sql_"

const grammar = `%sql_([a-z]+)\{([a-z]+):([\w!$"#&%'*+,\-.:=]+)\}`

var (
	placeholderPattern = regexp.MustCompile(grammar)
	anchoredPattern    = regexp.MustCompile(`^` + grammar)
)

// Match is one well-formed placeholder found in a text.
type Match struct {
	Text   string
	Origin string
	Type   string
	Name   string
	Start  int
	End    int
}

// Scan returns the leftmost well-formed placeholder in text.
func Scan(text string) (Match, bool) {
	loc := placeholderPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return Match{}, false
	}
	return Match{
		Text:   text[loc[0]:loc[1]],
		Origin: text[loc[2]:loc[3]],
		Type:   text[loc[4]:loc[5]],
		Name:   text[loc[6]:loc[7]],
		Start:  loc[0],
		End:    loc[1],
	}, true
}

// Malformed is a "%sql_" occurrence that does not match the placeholder grammar.
// It is left in the statement as literal text.
type Malformed struct {
	Offset  int
	Snippet string
}

// Lint reports every "%sql_" occurrence in text that is not the start of a
// well-formed placeholder.
func Lint(text string) []Malformed {
	var out []Malformed
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], Prefix)
		if j < 0 {
			break
		}
		at := i + j
		if !anchoredPattern.MatchString(text[at:]) {
			out = append(out, Malformed{Offset: at, Snippet: snippet(text, at)})
		}
		i = at + len(Prefix)
	}
	return out
}

func snippet(text string, at int) string {
	end := at + 40
	if nl := strings.IndexAny(text[at:], "\r\n"); nl >= 0 && at+nl < end {
		end = at + nl
	}
	if end > len(text) {
		end = len(text)
	}
	return text[at:end]
}
