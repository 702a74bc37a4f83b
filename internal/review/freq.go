package review

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/gradelab/grader/internal/scoring"
)

// Comments closer than this to an existing entry are folded into it.
const foldSimilarity = 0.8

// An entry is suggested once it has been used this many times.
const suggestAfter = 3

// FrequentComments tracks free-text grading remarks across one session so
// often-repeated comments can be reused via @N shortcuts. Created at session
// start, discarded at session end; never persisted.
type FrequentComments struct {
	counts *xsync.MapOf[string, int]
}

func NewFrequentComments() *FrequentComments {
	return &FrequentComments{counts: xsync.NewMapOf[string, int]()}
}

// Observe folds the comment into the closest existing entry when its
// similarity reaches the fold threshold, otherwise records it as new.
func (f *FrequentComments) Observe(text string) {
	best := ""
	bestSim := 0.0
	f.counts.Range(func(existing string, _ int) bool {
		if sim := scoring.Similarity(text, existing); sim > bestSim {
			bestSim = sim
			best = existing
		}
		return true
	})

	if bestSim >= foldSimilarity {
		f.counts.Compute(best, func(old int, _ bool) (int, bool) {
			return old + 1, false
		})
		return
	}
	f.counts.Store(text, 1)
}

// Suggestions lists entries whose count has reached the suggestion
// threshold, most frequent first. Order is stable for equal counts.
func (f *FrequentComments) Suggestions() []string {
	type entry struct {
		text  string
		count int
	}
	var entries []entry
	f.counts.Range(func(text string, count int) bool {
		if count >= suggestAfter {
			entries = append(entries, entry{text, count})
		}
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].text < entries[j].text
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.text
	}
	return out
}
