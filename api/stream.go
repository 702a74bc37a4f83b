package api

import "time"

// MsgType is a message type for streaming grade-session messages
type MsgType string

// Streaming message type constants
const (
	StartSessionMsg    MsgType = "session_start"
	StartSubmissionMsg MsgType = "submission_start"
	FinishRunMsg       MsgType = "run_finish"
	GradeFinalizedMsg  MsgType = "grade_finalized"
	FinishSessionMsg   MsgType = "session_finish"
)

// Run data size constraints for streaming
const (
	MaxRunDataHeight = 40
	MaxRunDataWidth  = 80
)

// Header is the common header for all streaming messages
type Header struct {
	SessionUuid string  `json:"session_uuid"`
	MsgType     MsgType `json:"msg_type"`
}

// RunData contains the captured output of one test run of a submission
type RunData struct {
	Stdout string `json:"out"`
	Stderr string `json:"err"`

	Succeeded bool `json:"succeeded"`
	Cancelled bool `json:"cancelled"`
}

// StartSession message sent when a grading session begins
type StartSession struct {
	Header
	Assignment  string `json:"assignment"`
	Submissions int    `json:"submissions"`
	StartedTime string `json:"started_time"`
}

// StartSubmission message sent when a submission is reached
type StartSubmission struct {
	Header
	Student string `json:"student"`
}

// FinishRun message sent when one test run of a submission completes
type FinishRun struct {
	Header
	Student string   `json:"student"`
	RunId   int      `json:"run_id"`
	RunData *RunData `json:"run_data"`
}

// GradeFinalized message sent when the operator accepts a grade
type GradeFinalized struct {
	Header
	Record GradeRecord `json:"record"`
}

// FinishSession message sent when the whole batch completes
type FinishSession struct {
	Header
	Graded int `json:"graded"`
}

func NewHeader(sessionUuid string, msgType MsgType) Header {
	return Header{
		SessionUuid: sessionUuid,
		MsgType:     msgType,
	}
}

func NewStartSession(sessionUuid, assignment string, submissions int) StartSession {
	return StartSession{
		Header:      NewHeader(sessionUuid, StartSessionMsg),
		Assignment:  assignment,
		Submissions: submissions,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartSubmission(sessionUuid, student string) StartSubmission {
	return StartSubmission{
		Header:  NewHeader(sessionUuid, StartSubmissionMsg),
		Student: student,
	}
}

func NewFinishRun(sessionUuid, student string, runId int, runData *RunData) FinishRun {
	return FinishRun{
		Header:  NewHeader(sessionUuid, FinishRunMsg),
		Student: student,
		RunId:   runId,
		RunData: runData,
	}
}

func NewGradeFinalized(sessionUuid string, record GradeRecord) GradeFinalized {
	return GradeFinalized{
		Header: NewHeader(sessionUuid, GradeFinalizedMsg),
		Record: record,
	}
}

func NewFinishSession(sessionUuid string, graded int) FinishSession {
	return FinishSession{
		Header: NewHeader(sessionUuid, FinishSessionMsg),
		Graded: graded,
	}
}
