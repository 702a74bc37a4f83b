package penalty_test

import (
	"testing"
	"time"

	"github.com/gradelab/grader/internal/penalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfect is a submission with nothing wrong.
func perfect() penalty.Grade {
	return penalty.Grade{
		OutputScore:    1.0,
		AnswerScore:    1.0,
		FileScore:      1.0,
		FileNameScore:  1.0,
		OutputGraded:   true,
		HasMain:        true,
		HasHeader:      true,
		HasComments:    true,
		HasDescription: true,
	}
}

func TestAssessPerfectSubmission(t *testing.T) {
	led := penalty.Assess(perfect())
	assert.Empty(t, led.Entries())
	assert.Equal(t, 100, led.Grade())
}

func TestAssessMissingFile(t *testing.T) {
	led := penalty.Assess(penalty.Grade{Missing: true})
	require.Len(t, led.Entries(), 1)
	assert.Equal(t, 100, led.Entries()[0].Points)
	assert.Equal(t, 0, led.Grade())
}

func TestAssessExecutionFailure(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 1)
	assert.Equal(t, penalty.PointsExecFailed, led.Entries()[0].Points)
	assert.Equal(t, "did not run", led.Entries()[0].Comment)
	assert.Equal(t, 70, led.Grade())
}

func TestAssessCancelledDistinctFromFailed(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	g.ExecCancelled = true
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 1)
	assert.Equal(t, "manually stopped", led.Entries()[0].Comment)
	assert.Equal(t, penalty.PointsExecFailed, led.Entries()[0].Points)
}

func TestAssessScaledOutputPenalty(t *testing.T) {
	g := perfect()
	g.OutputScore = 0.8
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 1)
	// round(10 * 0.2) = 2
	assert.Equal(t, 2, led.Entries()[0].Points)
	assert.Equal(t, 98, led.Grade())
}

func TestAssessStaticScanPenalties(t *testing.T) {
	g := perfect()
	g.HasMain = false
	g.HasComments = false
	g.HasDescription = false
	led := penalty.Assess(g)
	assert.Len(t, led.Entries(), 3)
	assert.Equal(t, 100-penalty.PointsNoMain-penalty.PointsNoComments-penalty.PointsNoDesc, led.Grade())
}

func TestAssessNoDescriptionNeedsHeader(t *testing.T) {
	// Without a header there is nothing to hold a description; only the
	// header penalty applies.
	g := perfect()
	g.HasHeader = false
	g.HasDescription = false
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 1)
	assert.Equal(t, penalty.PointsNoHeader, led.Entries()[0].Points)
}

func TestAssessLateness(t *testing.T) {
	g := perfect()
	g.DaysLate = 3
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 1)
	assert.Equal(t, 30, led.Entries()[0].Points)
	assert.Equal(t, 70, led.Grade())
}

func TestLedgerRemoveRaisesGrade(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	g.DaysLate = 1
	led := penalty.Assess(g)
	require.Len(t, led.Entries(), 2)
	before := led.Grade()

	removed := led.Remove(1)
	require.True(t, removed)
	assert.Greater(t, led.Grade(), before)
	assert.Len(t, led.Entries(), 1)
}

func TestLedgerRemoveOutOfRange(t *testing.T) {
	led := penalty.Assess(perfect())
	assert.False(t, led.Remove(0))
	assert.False(t, led.Remove(1))
	assert.Equal(t, 100, led.Grade())
}

func TestLedgerDeltas(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	led := penalty.Assess(g)
	led.AddDelta(-5)
	led.AddDelta(10)
	assert.Equal(t, 75, led.Grade())
}

func TestLedgerOverrideWins(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	led := penalty.Assess(g)
	led.AddDelta(-50)
	led.Override(85)
	assert.Equal(t, 85, led.Grade())
}

func TestLedgerManualZeroesGrade(t *testing.T) {
	led := penalty.Assess(perfect())
	led.SetManual()
	assert.True(t, led.Manual())
	assert.Equal(t, 0, led.Grade())
}

func TestLedgerGradeFloorsAtZero(t *testing.T) {
	g := perfect()
	g.ExecFailed = true
	g.DaysLate = 9
	led := penalty.Assess(g)
	assert.Equal(t, 0, led.Grade())
}

func TestDaysLateSameMonth(t *testing.T) {
	mod := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, penalty.DaysLate(mod, 14, 10))
}

func TestDaysLateOnTime(t *testing.T) {
	mod := time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, penalty.DaysLate(mod, 14, 10))
}

func TestDaysLateMonthCrossing(t *testing.T) {
	// The month boundary adds a flat 30 days regardless of month length.
	mod := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 18, penalty.DaysLate(mod, 14, 10))
}
