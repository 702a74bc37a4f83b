package penalty

// Entry is one triggered penalty rule: a diagnostic description shown to the
// operator, the points it subtracts from the 100-point baseline, and the
// short canonical comment carried into the final grade comment.
type Entry struct {
	Description string
	Points      int
	Comment     string
}

// Ledger is the ordered set of currently-active penalties for one
// submission, plus the ad-hoc adjustments the operator applies during
// review. Indices shown to the operator are 1-based; removing entry i
// removes its description and its comment together.
type Ledger struct {
	entries  []Entry
	deltas   []int
	manual   bool
	override *int
}

func (l *Ledger) Add(description string, points int, comment string) {
	l.entries = append(l.entries, Entry{
		Description: description,
		Points:      points,
		Comment:     comment,
	})
}

// Remove drops the n-th (1-based) entry. Out-of-range n is a no-op and
// reports false.
func (l *Ledger) Remove(n int) bool {
	if n < 1 || n > len(l.entries) {
		return false
	}
	l.entries = append(l.entries[:n-1], l.entries[n:]...)
	return true
}

// AddDelta appends a signed point adjustment; it does not touch entries.
func (l *Ledger) AddDelta(d int) {
	l.deltas = append(l.deltas, d)
}

// Override sets a flat grade, short-circuiting ledger math entirely.
func (l *Ledger) Override(grade int) {
	g := grade
	l.override = &g
}

// SetManual flags manual-regrade mode; the recommended grade becomes zero.
func (l *Ledger) SetManual() { l.manual = true }

func (l *Ledger) Manual() bool { return l.manual }

func (l *Ledger) Entries() []Entry { return l.entries }

// Grade is the recommended grade given the current ledger state.
func (l *Ledger) Grade() int {
	if l.override != nil {
		return clampGrade(*l.override)
	}
	if l.manual {
		return 0
	}
	total := 100
	for _, e := range l.entries {
		total -= e.Points
	}
	for _, d := range l.deltas {
		total += d
	}
	return clampGrade(total)
}

func clampGrade(g int) int {
	if g < 0 {
		return 0
	}
	return g
}
