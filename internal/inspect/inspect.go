// Package inspect performs the static scan of a submission's raw source
// text. It is a keyword search, not a parse: "main" as a substring, comment
// markers by prefix. The scan is a single pass with one piece of state, a
// "still in header" cursor that starts true and flips false on the first
// non-empty line that is not a comment.
package inspect

import (
	"bufio"
	"strings"
	"unicode"
)

// Report is the outcome of scanning one submission.
type Report struct {
	HasMain        bool
	HasHeader      bool
	HasComments    bool
	HasDescription bool
	// Partner is the partner's name extracted from the header, reversed and
	// comma-joined for roster lookup ("Jane Doe" -> "Doe,Jane"). Empty when
	// no partner line exists.
	Partner string
}

// minDescriptionChars is the number of non-whitespace characters that must
// follow the word "description" for the header to count as described.
const minDescriptionChars = 12

var commentMarkers = []string{"#", "//"}

// Scan inspects the raw source text. Scanning the same text twice yields
// the same report.
func Scan(src string) Report {
	var rep Report
	inHeader := true

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if inHeader {
			if trimmed == "" {
				continue
			}
			if isComment(trimmed) {
				rep.HasHeader = true
				scanHeaderLine(line, &rep)
				continue
			}
			inHeader = false
		}

		if strings.Contains(line, "main") {
			rep.HasMain = true
		}
		if containsMarker(line) {
			rep.HasComments = true
		}
	}

	return rep
}

func scanHeaderLine(line string, rep *Report) {
	lower := strings.ToLower(line)

	if idx := strings.Index(lower, "description"); idx >= 0 {
		rest := line[idx+len("description"):]
		if countNonSpace(rest) >= minDescriptionChars {
			rep.HasDescription = true
		}
	}

	if idx := strings.Index(lower, "partner name"); idx >= 0 {
		tokens := strings.Fields(line[idx+len("partner name"):])
		tokens = trimNameTokens(tokens)
		if len(tokens) > 0 {
			reversed := make([]string, 0, len(tokens))
			for i := len(tokens) - 1; i >= 0; i-- {
				reversed = append(reversed, tokens[i])
			}
			rep.Partner = strings.Join(reversed, ",")
		}
	}
}

// trimNameTokens drops punctuation-only tokens such as a ":" separator
// between the label and the name.
func trimNameTokens(tokens []string) []string {
	out := tokens[:0]
	for _, tok := range tokens {
		tok = strings.Trim(tok, ":,-")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func isComment(trimmed string) bool {
	for _, m := range commentMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

func containsMarker(line string) bool {
	for _, m := range commentMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
