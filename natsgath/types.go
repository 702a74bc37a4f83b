package natsgath

import (
	"github.com/nats-io/nats.go"

	"github.com/gradelab/grader/api"
)

type natsGatherer struct {
	nc          *nats.Conn
	subject     string
	sessionUuid string
}

func (s *natsGatherer) StartSession(assignment string, submissions int) {
	s.send(api.NewStartSession(s.sessionUuid, assignment, submissions))
}

func (s *natsGatherer) StartSubmission(student string) {
	s.send(api.NewStartSubmission(s.sessionUuid, student))
}

func (s *natsGatherer) FinishRun(student string, runId int, data *api.RunData) {
	s.send(api.NewFinishRun(s.sessionUuid, student, runId, trimRunData(data)))
}

func (s *natsGatherer) FinishSubmission(rec api.GradeRecord) {
	s.send(api.NewGradeFinalized(s.sessionUuid, rec))
}

func (s *natsGatherer) FinishSession(graded int) {
	s.send(api.NewFinishSession(s.sessionUuid, graded))
}

func trimRunData(data *api.RunData) *api.RunData {
	if data == nil {
		return nil
	}
	return &api.RunData{
		Stdout:    trimStrToRect(data.Stdout, api.MaxRunDataHeight, api.MaxRunDataWidth),
		Stderr:    trimStrToRect(data.Stderr, api.MaxRunDataHeight, api.MaxRunDataWidth),
		Succeeded: data.Succeeded,
		Cancelled: data.Cancelled,
	}
}
