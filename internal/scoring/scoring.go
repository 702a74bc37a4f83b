package scoring

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
)

// RunScore is the outcome of comparing one run's actual output against the
// expected transcript.
type RunScore struct {
	// Output is a continuous similarity-based grade in [0,1].
	Output float64
	// Answer is 1.0 iff every required keyword appears in the actual output.
	Answer float64
}

// Score compares actual vs expected line sequences. Trailing whitespace is
// stripped from every line, empty lines are dropped, and the remainder is
// concatenated (no separators) before the similarity comparison. With
// ignoreSpacing set, all whitespace is removed from both sides first.
//
// A length mismatch of at least half the expected length carries a fixed
// 0.5 penalty; it catches truncated or looping output that character-level
// similarity can mask.
func Score(actual, expected []string, ignoreSpacing bool, keywords mapset.Set[string]) RunScore {
	a := concatFiltered(actual)
	e := concatFiltered(expected)

	if ignoreSpacing {
		a = stripSpace(a)
		e = stripSpace(e)
	}

	ratio := Similarity(a, e)

	diff := len(a) - len(e)
	if diff < 0 {
		diff = -diff
	}
	if diff > 0 && 2*diff >= len(e) {
		ratio -= 0.5
	}
	if ratio < 0 {
		ratio = 0
	}

	answer := 1.0
	if keywords != nil {
		for kw := range keywords.Iter() {
			if !strings.Contains(a, kw) {
				answer = 0.0
				break
			}
		}
	}

	return RunScore{Output: ratio, Answer: answer}
}

// concatFiltered strips trailing whitespace from every line, drops lines that
// end up empty, and joins the rest into one comparison string.
func concatFiltered(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		sb.WriteString(trimmed)
	}
	return sb.String()
}

func stripSpace(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
