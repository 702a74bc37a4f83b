package scoring

import "math"

// Tally accumulates per-run scores across a submission. Each score is
// weighted by the number of comparisons it represents (expected output
// lines, required keywords, expected files), so a run with a longer
// transcript counts for more than a trivial one.
type Tally struct {
	outputSum, outputWeight float64
	answerSum, answerWeight float64
	fileSum, fileWeight     float64
	nameSum, nameWeight     float64
}

func (t *Tally) AddOutput(score float64, expectedLines int) {
	w := float64(expectedLines)
	t.outputSum += score * w
	t.outputWeight += w
}

func (t *Tally) AddAnswer(score float64, keywords int) {
	w := float64(keywords)
	t.answerSum += score * w
	t.answerWeight += w
}

func (t *Tally) AddFile(score float64) {
	t.fileSum += score
	t.fileWeight++
}

func (t *Tally) AddFileName(score float64) {
	t.nameSum += score
	t.nameWeight++
}

// Averages reports the per-submission sub-scores, floored to one decimal
// place. Flooring (not rounding) is a deliberate downward bias against
// rounding up borderline grades. A sub-score with no comparisons defaults
// to 1.0: nothing was graded, so nothing can be wrong.
func (t *Tally) Averages() (output, answer, file, name float64) {
	output = average(t.outputSum, t.outputWeight)
	answer = average(t.answerSum, t.answerWeight)
	file = average(t.fileSum, t.fileWeight)
	name = average(t.nameSum, t.nameWeight)
	return
}

// OutputGraded reports whether any console-output comparison happened.
func (t *Tally) OutputGraded() bool { return t.outputWeight > 0 }

// AnswerGraded reports whether any keyword check happened.
func (t *Tally) AnswerGraded() bool { return t.answerWeight > 0 }

// FilesGraded reports whether any output-file comparison happened.
func (t *Tally) FilesGraded() bool { return t.fileWeight > 0 }

// NamesGraded reports whether any file-name check happened.
func (t *Tally) NamesGraded() bool { return t.nameWeight > 0 }

func average(sum, weight float64) float64 {
	if weight == 0 {
		return 1.0
	}
	return floorTenth(sum / weight)
}

func floorTenth(x float64) float64 {
	return math.Floor(x*10) / 10
}
