package api

// GradeRecord is the finalized result for one submission. It is handed to
// every configured gatherer once the operator accepts a grade.
type GradeRecord struct {
	SessionUuid string `json:"session_uuid"`

	Student string  `json:"student"`
	Partner *string `json:"partner,omitempty"`

	Grade   int    `json:"grade"`
	Comment string `json:"comment"`
}
