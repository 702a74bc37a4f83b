// Package review is the interactive ledger adjuster: it shows the operator
// the penalty ledger, applies adjustment commands, composes the final
// comment, and reports whether the submission is finalized, needs a full
// regrade, or the batch should stop.
package review

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/gradelab/grader/internal/penalty"
)

// OutcomeKind tags the result of reviewing one submission.
type OutcomeKind int

const (
	// Finalized: the operator accepted a grade and comment.
	Finalized OutcomeKind = iota
	// Redo: discard everything computed and regrade from execution onward.
	Redo
	// Quit: terminate the remaining batch.
	Quit
)

// Outcome is the tagged result of one review pass. Redo is handled by the
// caller's loop rather than recursion, so repeated redos cannot grow the
// stack.
type Outcome struct {
	Kind    OutcomeKind
	Grade   int
	Comment string
}

const manualMarker = "regrade manually"

// Reviewer runs the interactive phase for each submission. It owns the
// session-scoped frequent-comment state.
type Reviewer struct {
	in   LineReader
	out  io.Writer
	freq *FrequentComments
}

func New(in LineReader, out io.Writer) *Reviewer {
	return &Reviewer{
		in:   in,
		out:  out,
		freq: NewFrequentComments(),
	}
}

// Input exposes the operator input stream for prompts outside the review
// loop (missing-file overrides).
func (r *Reviewer) Input() LineReader { return r.in }

// Review runs the adjustment loop, the comment entry, and the confirmation
// prompt for one submission's ledger.
func (r *Reviewer) Review(student string, led *penalty.Ledger) (Outcome, error) {
	if err := r.adjust(student, led); err != nil {
		return Outcome{}, err
	}

	comment, learned, err := r.composeComment(led)
	if err != nil {
		return Outcome{}, err
	}

	kind, err := r.confirm(led.Grade())
	if err != nil {
		return Outcome{}, err
	}

	// a comment only counts toward reuse once its grade actually stands
	if kind == Finalized && learned != "" {
		r.freq.Observe(learned)
	}

	return Outcome{Kind: kind, Grade: led.Grade(), Comment: comment}, nil
}

// adjust applies operator commands until an empty line accepts the displayed
// grade. Malformed tokens are ignored; a bare integer or `m` ends the loop
// immediately.
func (r *Reviewer) adjust(student string, led *penalty.Ledger) error {
	for {
		r.printLedger(student, led)
		line, err := r.in.ReadLine("adjust> ")
		if err != nil {
			return fmt.Errorf("failed to read adjustment: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil
		}
		if len(fields) == 1 {
			tok := fields[0]
			if strings.EqualFold(tok, "m") {
				led.SetManual()
				return nil
			}
			if g, ok := parseBareInt(tok); ok {
				led.Override(g)
				return nil
			}
		}
		for _, tok := range fields {
			applyToken(led, tok)
		}
	}
}

// applyToken handles x<N> removals and +<N>/-<N> deltas; anything else is a
// silent no-op.
func applyToken(led *penalty.Ledger, tok string) {
	if len(tok) < 2 {
		return
	}
	switch tok[0] {
	case 'x', 'X':
		if n, err := strconv.Atoi(tok[1:]); err == nil {
			led.Remove(n)
		}
	case '+', '-':
		if d, err := strconv.Atoi(tok); err == nil {
			led.AddDelta(d)
		}
	}
}

// parseBareInt accepts only unsigned digit strings; signed numbers are
// deltas, not overrides.
func parseBareInt(tok string) (int, bool) {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// composeComment reads and expands the operator's free-text comment. The
// second return is the text to feed frequent-comment learning, empty when a
// shortcut was used or nothing was entered.
func (r *Reviewer) composeComment(led *penalty.Ledger) (string, string, error) {
	suggestions := r.freq.Suggestions()
	if len(suggestions) > 0 {
		fmt.Fprintln(r.out, "frequent comments:")
		for i, s := range suggestions {
			fmt.Fprintf(r.out, "  @%d %s\n", i+1, s)
		}
	}

	text, err := r.in.ReadLine("comment> ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read comment: %w", err)
	}

	expanded, usedShortcut := ExpandShortcuts(text, suggestions)
	expanded = strings.TrimSpace(expanded)
	learned := expanded
	if usedShortcut {
		learned = ""
	}

	return ComposeComment(led, expanded), learned, nil
}

// ComposeComment concatenates, in order, the manual-regrade marker, the
// canonical comment of every remaining ledger entry, and the operator's
// free-text comment.
func ComposeComment(led *penalty.Ledger, freeText string) string {
	var parts []string
	if led.Manual() {
		parts = append(parts, manualMarker)
	}
	for _, e := range led.Entries() {
		parts = append(parts, e.Comment)
	}
	if freeText != "" {
		parts = append(parts, freeText)
	}
	return strings.Join(parts, "; ")
}

func (r *Reviewer) confirm(grade int) (OutcomeKind, error) {
	for {
		line, err := r.in.ReadLine(fmt.Sprintf("grade %d [enter=accept r=redo q=quit]> ", grade))
		if err != nil {
			return Finalized, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return Finalized, nil
		case "r":
			return Redo, nil
		case "q":
			return Quit, nil
		}
	}
}

func (r *Reviewer) printLedger(student string, led *penalty.Ledger) {
	bold := color.New(color.Bold)
	bold.Fprintf(r.out, "-- %s --\n", student)
	entries := led.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no issues found")
	}
	for i, e := range entries {
		color.New(color.FgYellow).Fprintf(r.out, "%2d) -%d  %s\n", i+1, e.Points, e.Description)
	}
	fmt.Fprintf(r.out, "recommended grade: %d\n", led.Grade())
}
