package termgath

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/gradelab/grader/api"
)

// TerminalGatherer prints grading progress to the operator's terminal.
type TerminalGatherer struct {
	StartedAt time.Time
}

func New() *TerminalGatherer { return &TerminalGatherer{StartedAt: time.Now()} }

func (t *TerminalGatherer) StartSession(assignment string, submissions int) {
	color.New(color.Bold).Printf("== Grading %s: %d submissions ==\n", assignment, submissions)
}

func (t *TerminalGatherer) StartSubmission(student string) {
	fmt.Printf("-> %s\n", student)
}

func (t *TerminalGatherer) FinishRun(student string, runId int, data *api.RunData) {
	switch {
	case data.Cancelled:
		color.Yellow("   run %d stopped", runId)
	case !data.Succeeded:
		color.Red("   run %d failed", runId)
	default:
		color.Green("   run %d ok", runId)
	}
}

func (t *TerminalGatherer) FinishSubmission(rec api.GradeRecord) {
	fmt.Printf("<- %s: %d (%s)\n", rec.Student, rec.Grade, rec.Comment)
}

func (t *TerminalGatherer) FinishSession(graded int) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	fmt.Printf("== Graded %d submissions in %s ==\n", graded, dur)
}
