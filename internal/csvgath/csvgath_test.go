package csvgath_test

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gradelab/grader/api"
	"github.com/gradelab/grader/internal/csvgath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradebookWriteFailureLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradebook.csv")
	g, err := csvgath.New(path)
	require.NoError(t, err)
	require.NoError(t, g.Close())

	var logged bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logged, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	// The gradebook file is gone; the lost row must be reported right away,
	// not swallowed until session end.
	g.FinishSubmission(api.GradeRecord{Student: "lovelace", Grade: 95})

	assert.Contains(t, logged.String(), "failed to append gradebook row")
	assert.Contains(t, logged.String(), "lovelace")
}

func TestGradebookRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradebook.csv")
	g, err := csvgath.New(path)
	require.NoError(t, err)

	partner := "Hopper,Grace"
	g.FinishSubmission(api.GradeRecord{
		Student: "lovelace", Partner: &partner, Grade: 95, Comment: "late submission",
	})
	g.FinishSubmission(api.GradeRecord{
		Student: "turing", Grade: 70, Comment: `said "it works on my machine"; did not run`,
	})
	g.FinishSession(2)
	require.NoError(t, g.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Partner", "Grade", "Comment"}, rows[0])
	assert.Equal(t, []string{"lovelace", "Hopper,Grace", "95", "late submission"}, rows[1])
	// Embedded quotes and separators survive the round trip intact.
	assert.Equal(t, []string{"turing", "", "70", `said "it works on my machine"; did not run`}, rows[2])
}
