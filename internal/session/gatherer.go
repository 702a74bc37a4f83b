package session

import (
	"github.com/gradelab/grader/api"
)

// GradeGatherer receives grading progress and finalized records. Sinks
// include the terminal, the gradebook CSV, and the SQS/NATS publishers.
type GradeGatherer interface {
	StartSession(assignment string, submissions int)

	StartSubmission(student string)
	FinishRun(student string, runId int, data *api.RunData)
	FinishSubmission(rec api.GradeRecord)

	FinishSession(graded int)
}

// MultiGatherer fans every event out to each configured gatherer in order.
type MultiGatherer []GradeGatherer

func (m MultiGatherer) StartSession(assignment string, submissions int) {
	for _, g := range m {
		g.StartSession(assignment, submissions)
	}
}

func (m MultiGatherer) StartSubmission(student string) {
	for _, g := range m {
		g.StartSubmission(student)
	}
}

func (m MultiGatherer) FinishRun(student string, runId int, data *api.RunData) {
	for _, g := range m {
		g.FinishRun(student, runId, data)
	}
}

func (m MultiGatherer) FinishSubmission(rec api.GradeRecord) {
	for _, g := range m {
		g.FinishSubmission(rec)
	}
}

func (m MultiGatherer) FinishSession(graded int) {
	for _, g := range m {
		g.FinishSession(graded)
	}
}
