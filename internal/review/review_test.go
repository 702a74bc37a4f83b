package review_test

import (
	"bytes"
	"testing"

	"github.com/gradelab/grader/internal/penalty"
	"github.com/gradelab/grader/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedLedger() *penalty.Ledger {
	g := penalty.Grade{
		OutputScore:    1.0,
		AnswerScore:    1.0,
		FileScore:      1.0,
		FileNameScore:  1.0,
		OutputGraded:   true,
		HasMain:        true,
		HasHeader:      true,
		HasComments:    true,
		HasDescription: true,
		ExecFailed:     true,
		DaysLate:       1,
	}
	return penalty.Assess(g)
}

func newReviewer(lines ...string) (*review.Reviewer, *bytes.Buffer) {
	var out bytes.Buffer
	return review.New(&review.ScriptReader{Lines: lines}, &out), &out
}

func TestReviewAcceptDefaults(t *testing.T) {
	// Empty adjustment, empty comment, empty confirmation.
	rev, out := newReviewer("", "", "")
	led := failedLedger()

	outcome, err := rev.Review("alice", led)
	require.NoError(t, err)
	assert.Equal(t, review.Finalized, outcome.Kind)
	assert.Equal(t, 60, outcome.Grade)
	assert.Equal(t, "did not run; late submission", outcome.Comment)
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "recommended grade: 60")
}

func TestReviewRemoveEntry(t *testing.T) {
	// Remove the execution penalty, then accept.
	rev, _ := newReviewer("x1", "", "", "")
	led := failedLedger()

	outcome, err := rev.Review("bob", led)
	require.NoError(t, err)
	assert.Equal(t, 90, outcome.Grade)
	assert.Equal(t, "late submission", outcome.Comment)
}

func TestReviewDeltas(t *testing.T) {
	rev, _ := newReviewer("+5 -10", "", "", "")
	led := failedLedger()

	outcome, err := rev.Review("carol", led)
	require.NoError(t, err)
	assert.Equal(t, 55, outcome.Grade)
}

func TestReviewBareIntOverrides(t *testing.T) {
	rev, _ := newReviewer("85", "", "")
	led := failedLedger()

	outcome, err := rev.Review("dave", led)
	require.NoError(t, err)
	assert.Equal(t, 85, outcome.Grade)
}

func TestReviewManual(t *testing.T) {
	rev, _ := newReviewer("m", "", "")
	led := failedLedger()

	outcome, err := rev.Review("erin", led)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Grade)
	assert.Equal(t, "regrade manually; did not run; late submission", outcome.Comment)
}

func TestReviewFreeTextComment(t *testing.T) {
	rev, _ := newReviewer("", "see me after class", "")
	led := failedLedger()

	outcome, err := rev.Review("frank", led)
	require.NoError(t, err)
	assert.Equal(t, "did not run; late submission; see me after class", outcome.Comment)
}

func TestReviewRedoAndQuit(t *testing.T) {
	rev, _ := newReviewer("", "", "r")
	outcome, err := rev.Review("gina", failedLedger())
	require.NoError(t, err)
	assert.Equal(t, review.Redo, outcome.Kind)

	rev, _ = newReviewer("", "", "q")
	outcome, err = rev.Review("hank", failedLedger())
	require.NoError(t, err)
	assert.Equal(t, review.Quit, outcome.Kind)
}

func TestReviewMalformedTokensIgnored(t *testing.T) {
	rev, _ := newReviewer("xq bogus x99", "", "")
	led := failedLedger()

	outcome, err := rev.Review("ivan", led)
	require.NoError(t, err)
	assert.Equal(t, 60, outcome.Grade)
}

func TestComposeCommentEmptyLedger(t *testing.T) {
	led := penalty.Assess(penalty.Grade{
		OutputScore: 1.0, AnswerScore: 1.0, FileScore: 1.0, FileNameScore: 1.0,
		HasMain: true, HasHeader: true, HasComments: true, HasDescription: true,
	})
	assert.Equal(t, "", review.ComposeComment(led, ""))
	assert.Equal(t, "good work", review.ComposeComment(led, "good work"))
}

func TestExpandShortcuts(t *testing.T) {
	suggestions := []string{"missing edge cases", "crashes on empty input"}

	expanded, used := review.ExpandShortcuts("@2 and more", suggestions)
	assert.True(t, used)
	assert.Equal(t, "crashes on empty input and more", expanded)

	expanded, used = review.ExpandShortcuts("plain comment", suggestions)
	assert.False(t, used)
	assert.Equal(t, "plain comment", expanded)

	// Invalid indices are removed, but still count as shortcut use.
	expanded, used = review.ExpandShortcuts("@9 trailing", suggestions)
	assert.True(t, used)
	assert.Equal(t, "trailing", expanded)
}

func TestFrequentCommentsSuggestAfterThree(t *testing.T) {
	fc := review.NewFrequentComments()
	fc.Observe("fix your loop")
	fc.Observe("fix your loop")
	assert.Empty(t, fc.Suggestions())

	fc.Observe("fix your loop")
	assert.Equal(t, []string{"fix your loop"}, fc.Suggestions())
}

func TestFrequentCommentsFoldSimilar(t *testing.T) {
	fc := review.NewFrequentComments()
	fc.Observe("fix your loop")
	fc.Observe("fix your loops") // close enough to fold
	fc.Observe("fix your loop")
	assert.Equal(t, []string{"fix your loop"}, fc.Suggestions())
}

func TestReviewLearnsCommentOnFinalize(t *testing.T) {
	// The same comment finalized three times becomes a suggestion on the
	// fourth review.
	rev, out := newReviewer(
		"", "fix your loop", "",
		"", "fix your loop", "",
		"", "fix your loop", "",
		"", "", "")
	for i := 0; i < 3; i++ {
		_, err := rev.Review("alice", failedLedger())
		require.NoError(t, err)
	}
	assert.NotContains(t, out.String(), "frequent comments:")

	_, err := rev.Review("bob", failedLedger())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "@1 fix your loop")
}

func TestReviewDiscardedPassLearnsNothing(t *testing.T) {
	// A comment entered on a pass that is then redone or quit never counts
	// toward reuse.
	rev, out := newReviewer(
		"", "fix your loop", "r",
		"", "fix your loop", "r",
		"", "fix your loop", "q",
		"", "", "")
	for i := 0; i < 3; i++ {
		_, err := rev.Review("alice", failedLedger())
		require.NoError(t, err)
	}

	_, err := rev.Review("bob", failedLedger())
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "frequent comments:")
}

func TestFrequentCommentsDistinctKeptApart(t *testing.T) {
	fc := review.NewFrequentComments()
	fc.Observe("fix your loop")
	fc.Observe("missing header block")
	fc.Observe("fix your loop")
	fc.Observe("fix your loop")
	fc.Observe("missing header block")
	assert.Equal(t, []string{"fix your loop"}, fc.Suggestions())
}
