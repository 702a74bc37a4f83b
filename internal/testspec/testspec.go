package testspec

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// TestRun is one scripted execution scenario. It is immutable once parsed
// and shared read-only across all submissions graded against it.
type TestRun struct {
	// Inputs are fed to the submission's stdin in order, one line each.
	Inputs []string
	// Infiles are staged into the submission's working directory before launch.
	Infiles mapset.Set[string]
	// Outputs is the expected stdout transcript, in order.
	Outputs []string
	// Outfiles are the names of files the submission is expected to produce.
	Outfiles mapset.Set[string]
	// Answers are required keywords that must appear in the actual output.
	Answers mapset.Set[string]
}

// AssignmentSpec is the parsed test-case definition for one assignment.
type AssignmentSpec struct {
	Name       string
	TargetFile string
	DueDay     int
	DueMonth   int
	Runs       []TestRun
}

// FormatError reports a malformed spec file. It is fatal to the session.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("spec format error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("spec format error: %s", e.Msg)
}
