package review

import (
	"strconv"
	"strings"
)

// ExpandShortcuts rewrites @<N> tokens in a comment with the N-th (1-based)
// suggestion's text. Tokens with an invalid index are removed. The second
// return reports whether any @ token was present, which suppresses
// frequent-comment learning for the expanded text.
func ExpandShortcuts(comment string, suggestions []string) (string, bool) {
	fields := strings.Fields(comment)
	out := make([]string, 0, len(fields))
	used := false
	for _, tok := range fields {
		if !strings.HasPrefix(tok, "@") {
			out = append(out, tok)
			continue
		}
		used = true
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 1 || n > len(suggestions) {
			continue
		}
		out = append(out, suggestions[n-1])
	}
	return strings.Join(out, " "), used
}
