package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gradelab/grader/internal/scoring"
	"github.com/gradelab/grader/internal/testspec"
)

// scoreOutfiles compares every expected output file of the run against what
// the submission produced in its directory. A missing file needs operator
// intervention: either skip it (zero credit) or point at a differently
// named file, which keeps content credit but forfeits the name credit.
func (s *Session) scoreOutfiles(tally *scoring.Tally, dir string, run testspec.TestRun) {
	names := run.Outfiles.ToSlice()
	sort.Strings(names)

	for _, name := range names {
		expected, err := readLines(filepath.Join(s.cfg.DataDir, name))
		if err != nil {
			s.log.Error("expected output file unreadable", "file", name, "err", err)
			continue
		}

		actualPath := filepath.Join(dir, name)
		nameScore := 1.0
		if _, err := os.Stat(actualPath); err != nil {
			substitute := s.promptSubstitute(dir, name)
			if substitute == "" {
				tally.AddFile(0)
				tally.AddFileName(0)
				continue
			}
			actualPath = filepath.Join(dir, substitute)
			nameScore = 0
		}

		actual, err := readLines(actualPath)
		if err != nil {
			s.log.Warn("output file unreadable", "file", actualPath, "err", err)
			tally.AddFile(0)
			tally.AddFileName(0)
			continue
		}

		sc := scoring.Score(actual, expected, s.cfg.IgnoreSpacing, nil)
		tally.AddFile(sc.Output)
		tally.AddFileName(nameScore)
	}
}

func (s *Session) promptSubstitute(dir, name string) string {
	line, err := s.rev.Input().ReadLine(fmt.Sprintf(
		"output file %s missing in %s; enter substitute name or leave empty to skip> ",
		name, dir))
	if err != nil {
		return ""
	}
	sub := strings.TrimSpace(line)
	if sub == "" {
		return ""
	}
	if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
		return ""
	}
	return sub
}

func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(b), "\n"), nil
}
