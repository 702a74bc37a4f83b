package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/gradelab/grader/api"
)

type sqsGradeGatherer struct {
	sqsClient   *sqs.Client
	queueUrl    string
	sessionUuid string
}

func (s *sqsGradeGatherer) StartSession(assignment string, submissions int) {
	s.send(api.NewStartSession(s.sessionUuid, assignment, submissions))
}

func (s *sqsGradeGatherer) StartSubmission(student string) {
	s.send(api.NewStartSubmission(s.sessionUuid, student))
}

func (s *sqsGradeGatherer) FinishRun(student string, runId int, data *api.RunData) {
	s.send(api.NewFinishRun(s.sessionUuid, student, runId, trimRunData(data)))
}

func (s *sqsGradeGatherer) FinishSubmission(rec api.GradeRecord) {
	s.send(api.NewGradeFinalized(s.sessionUuid, rec))
}

func (s *sqsGradeGatherer) FinishSession(graded int) {
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
