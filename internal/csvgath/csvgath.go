// Package csvgath appends finalized grades to a gradebook CSV. The csv
// encoder quotes embedded quotes and separators, so operator comments are
// always safe to persist.
package csvgath

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gradelab/grader/api"
)

type CsvGatherer struct {
	f *os.File
	w *csv.Writer
}

func New(path string) (*CsvGatherer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open gradebook %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Partner", "Grade", "Comment"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write gradebook header: %w", err)
	}
	return &CsvGatherer{f: f, w: w}, nil
}

func (g *CsvGatherer) StartSession(assignment string, submissions int) {}

func (g *CsvGatherer) StartSubmission(student string) {}

func (g *CsvGatherer) FinishRun(student string, runId int, data *api.RunData) {}

func (g *CsvGatherer) FinishSubmission(rec api.GradeRecord) {
	partner := ""
	if rec.Partner != nil {
		partner = *rec.Partner
	}
	g.w.Write([]string{rec.Student, partner, strconv.Itoa(rec.Grade), rec.Comment})
	g.w.Flush()
	if err := g.w.Error(); err != nil {
		// the operator must hear about a lost row before session end
		slog.Error("failed to append gradebook row", "student", rec.Student, "err", err)
	}
}

func (g *CsvGatherer) FinishSession(graded int) {
	g.w.Flush()
}

func (g *CsvGatherer) Close() error {
	g.w.Flush()
	if err := g.w.Error(); err != nil {
		g.f.Close()
		return fmt.Errorf("failed to flush gradebook: %w", err)
	}
	return g.f.Close()
}
