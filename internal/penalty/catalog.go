package penalty

import (
	"fmt"
	"math"
)

// Grade is everything known about a submission once execution, scoring and
// the static source scan are done. It is derived deterministically from the
// execution results and a raw read of the source text.
type Grade struct {
	OutputScore   float64
	AnswerScore   float64
	FileScore     float64
	FileNameScore float64

	OutputGraded bool
	AnswerGraded bool
	FilesGraded  bool
	NamesGraded  bool

	HasMain        bool
	HasHeader      bool
	HasComments    bool
	HasDescription bool

	DaysLate int

	ExecFailed    bool
	ExecCancelled bool
	WrongFileName bool
	Missing       bool
}

// Fixed penalty point values. All independent, all additive subtractions
// from the 100-point baseline.
const (
	PointsExecFailed  = 30
	PointsAnswerMax   = 20
	PointsFileMax     = 10
	PointsFileNameMax = 5
	PointsOutputMax   = 10
	PointsNoMain      = 10
	PointsNoHeader    = 10
	PointsNoComments  = 10
	PointsNoDesc      = 5
	PointsWrongName   = 5
	PointsPerDayLate  = 10
)

// Assess applies the penalty catalog once and produces the issue ledger
// handed to interactive review.
func Assess(g Grade) *Ledger {
	led := &Ledger{}

	if g.Missing {
		led.Add("no submission file found", 100, "no file")
		return led
	}

	if g.ExecFailed {
		if g.ExecCancelled {
			led.Add("execution was manually stopped", PointsExecFailed, "manually stopped")
		} else {
			led.Add("program did not run", PointsExecFailed, "did not run")
		}
	}
	if g.AnswerGraded && g.AnswerScore < 1 {
		pts := scaled(PointsAnswerMax, g.AnswerScore)
		led.Add(fmt.Sprintf("answers incorrect (scored %.1f)", g.AnswerScore), pts, "incorrect answers")
	}
	if g.FilesGraded && g.FileScore < 1 {
		pts := scaled(PointsFileMax, g.FileScore)
		led.Add(fmt.Sprintf("output file contents incorrect (scored %.1f)", g.FileScore), pts, "incorrect output file")
	}
	if g.NamesGraded && g.FileNameScore < 1 {
		pts := scaled(PointsFileNameMax, g.FileNameScore)
		led.Add(fmt.Sprintf("output file names incorrect (scored %.1f)", g.FileNameScore), pts, "incorrect output file name")
	}
	if g.OutputGraded && g.OutputScore < 1 {
		pts := scaled(PointsOutputMax, g.OutputScore)
		led.Add(fmt.Sprintf("console output incorrect (scored %.1f)", g.OutputScore), pts, "incorrect output")
	}
	if !g.HasMain {
		led.Add("no main found in source", PointsNoMain, "missing main")
	}
	if !g.HasHeader {
		led.Add("no header comment block", PointsNoHeader, "missing header")
	}
	if !g.HasComments {
		led.Add("no comments in code body", PointsNoComments, "missing comments")
	}
	if g.HasHeader && !g.HasDescription {
		led.Add("header has no description", PointsNoDesc, "missing description")
	}
	if g.WrongFileName {
		led.Add("submission file name does not match", PointsWrongName, "incorrect file name")
	}
	if g.DaysLate > 0 {
		led.Add(fmt.Sprintf("submitted %d day(s) late", g.DaysLate),
			PointsPerDayLate*g.DaysLate, "late submission")
	}

	return led
}

func scaled(max int, score float64) int {
	return int(math.Round(float64(max) * (1 - score)))
}
