// Package session drives one grading session: it walks the submission
// directories in order, executes and scores each submission to completion,
// hands the ledger to interactive review, and publishes finalized records.
// Everything is strictly sequential; one submission's full cycle completes
// before the next begins.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gradelab/grader/api"
	"github.com/gradelab/grader/internal/harness"
	"github.com/gradelab/grader/internal/inspect"
	"github.com/gradelab/grader/internal/penalty"
	"github.com/gradelab/grader/internal/review"
	"github.com/gradelab/grader/internal/scoring"
	"github.com/gradelab/grader/internal/testspec"
	"github.com/gradelab/grader/internal/transcript"
)

// ErrSubmissionMissing marks a submission whose target file could not be
// located under any recognized name variant.
var ErrSubmissionMissing = errors.New("submission file missing")

// Config carries the operator-selected toggles for one session.
type Config struct {
	// Uuid identifies the session in published messages; one is generated
	// when empty.
	Uuid string

	SubmissionsDir string
	// DataDir holds the assignment's input files and expected output files;
	// it defaults to the spec file's directory.
	DataDir string
	// StartAt resumes the batch from the named student, skipping everyone
	// sorted before them.
	StartAt string

	IgnoreSpacing bool
	Partners      bool

	RunCommand []string
	Timeout    time.Duration
}

// Session grades every submission in a directory against one assignment
// spec.
type Session struct {
	Uuid string

	cfg  Config
	spec *testspec.AssignmentSpec
	hns  *harness.Harness
	rev  *review.Reviewer
	gath GradeGatherer
	tw   *transcript.Writer
	log  *slog.Logger

	mu            sync.Mutex
	runCancel     context.CancelFunc
	sessionCancel context.CancelFunc
}

func New(cfg Config, spec *testspec.AssignmentSpec, rev *review.Reviewer,
	gath GradeGatherer, tw *transcript.Writer, log *slog.Logger) *Session {

	if cfg.Uuid == "" {
		cfg.Uuid = uuid.NewString()
	}
	return &Session{
		Uuid: cfg.Uuid,
		cfg:  cfg,
		spec: spec,
		hns: &harness.Harness{
			RunCommand: cfg.RunCommand,
			DataDir:    cfg.DataDir,
			Timeout:    cfg.Timeout,
		},
		rev:  rev,
		gath: gath,
		tw:   tw,
		log:  log,
	}
}

// Interrupt implements the operator-interrupt contract: if a child process
// is executing it is cancelled and grading of that submission continues to
// ledger review; otherwise the whole session is aborted.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
		return
	}
	if s.sessionCancel != nil {
		s.sessionCancel()
	}
}

// Run grades the whole batch. It returns ctx.Err() when the session was
// aborted between executions; no grade is recorded for the submission that
// was in progress.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.sessionCancel = cancel
	s.mu.Unlock()

	students, err := s.listStudents()
	if err != nil {
		return err
	}

	s.gath.StartSession(s.spec.Name, len(students))
	graded := 0
	defer func() { s.gath.FinishSession(graded) }()

	started := s.cfg.StartAt == ""
	for _, student := range students {
		if !started {
			if student != s.cfg.StartAt {
				continue
			}
			started = true
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.gath.StartSubmission(student)

		// Redo discards all computed state and regrades from execution
		// onward; quit ends the batch early.
		for {
			led, partner, err := s.gradeOne(ctx, student)
			if err != nil {
				return err
			}

			outcome, err := s.rev.Review(student, led)
			if err != nil {
				return fmt.Errorf("review of %s failed: %w", student, err)
			}
			if outcome.Kind == review.Redo {
				s.log.Info("regrading submission", "student", student)
				continue
			}
			if outcome.Kind == review.Quit {
				s.log.Info("batch terminated by operator", "graded", graded)
				return nil
			}

			rec := api.GradeRecord{
				SessionUuid: s.Uuid,
				Student:     student,
				Grade:       outcome.Grade,
				Comment:     outcome.Comment,
			}
			if s.cfg.Partners && partner != "" {
				rec.Partner = &partner
			}
			s.gath.FinishSubmission(rec)
			if s.tw != nil {
				s.tw.Grade(rec)
			}
			graded++
			break
		}
	}

	return nil
}

// gradeOne executes and scores one submission, producing its issue ledger.
func (s *Session) gradeOne(ctx context.Context, student string) (*penalty.Ledger, string, error) {
	dir := filepath.Join(s.cfg.SubmissionsDir, student)

	path, variant, err := s.locateWithOverride(dir)
	if err != nil {
		if errors.Is(err, ErrSubmissionMissing) {
			s.log.Warn("no submission file", "student", student)
			return penalty.Assess(penalty.Grade{Missing: true}), "", nil
		}
		return nil, "", err
	}

	srcBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read submission %s: %w", path, err)
	}
	rep := inspect.Scan(string(srcBytes))

	daysLate := 0
	if info, err := os.Stat(path); err == nil {
		daysLate = penalty.DaysLate(info.ModTime(), s.spec.DueDay, s.spec.DueMonth)
	}

	tally := &scoring.Tally{}
	failed := false
	cancelled := false

	for i, run := range s.spec.Runs {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		res, err := s.executeRun(ctx, path, run)
		if err != nil {
			if res != nil {
				harness.RemoveStaged(res.StagedFiles)
			}
			return nil, "", fmt.Errorf("run %d of %s: %w", i+1, student, err)
		}

		s.reportRun(student, i+1, res)

		if res.Cancelled {
			s.log.Warn("execution manually stopped", "student", student, "run", i+1)
			failed, cancelled = true, true
		} else if !res.Succeeded {
			s.log.Warn("execution failed", "student", student, "run", i+1,
				"stderr", firstLine(res.Stderr))
			failed = true
		} else {
			s.scoreRun(tally, dir, run, res)
		}

		// staged input files come out only after scoring is done with them
		harness.RemoveStaged(res.StagedFiles)

		if failed {
			// remaining runs are meaningless against a dead process
			break
		}
	}

	outScore, ansScore, fileScore, nameScore := tally.Averages()
	grade := penalty.Grade{
		OutputScore:   outScore,
		AnswerScore:   ansScore,
		FileScore:     fileScore,
		FileNameScore: nameScore,

		OutputGraded: tally.OutputGraded(),
		AnswerGraded: tally.AnswerGraded(),
		FilesGraded:  tally.FilesGraded(),
		NamesGraded:  tally.NamesGraded(),

		HasMain:        rep.HasMain,
		HasHeader:      rep.HasHeader,
		HasComments:    rep.HasComments,
		HasDescription: rep.HasDescription,

		DaysLate:      daysLate,
		ExecFailed:    failed,
		ExecCancelled: cancelled,
		WrongFileName: variant != Exact,
	}

	return penalty.Assess(grade), rep.Partner, nil
}

// executeRun runs the harness with a per-run cancel handle registered for
// the interrupt contract.
func (s *Session) executeRun(ctx context.Context, path string, run testspec.TestRun) (*harness.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.runCancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.runCancel = nil
		s.mu.Unlock()
		cancel()
	}()

	return s.hns.Execute(runCtx, path, run)
}

// scoreRun feeds one successful run's comparisons into the tally.
func (s *Session) scoreRun(tally *scoring.Tally, dir string, run testspec.TestRun, res *harness.Result) {
	actual := strings.Split(res.Stdout, "\n")
	sc := scoring.Score(actual, run.Outputs, s.cfg.IgnoreSpacing, run.Answers)
	if len(run.Outputs) > 0 {
		tally.AddOutput(sc.Output, len(run.Outputs))
	}
	if run.Answers.Cardinality() > 0 {
		tally.AddAnswer(sc.Answer, run.Answers.Cardinality())
	}

	s.scoreOutfiles(tally, dir, run)
}

func (s *Session) reportRun(student string, runId int, res *harness.Result) {
	data := &api.RunData{
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		Succeeded: res.Succeeded,
		Cancelled: res.Cancelled,
	}
	s.gath.FinishRun(student, runId, data)
	if s.tw != nil {
		s.tw.Execution(student, runId, res.Stdout, res.Stderr, res.Succeeded, res.Cancelled)
	}
}

// locateWithOverride finds the target file, falling back to an operator
// supplied name when no variant matches.
func (s *Session) locateWithOverride(dir string) (string, Variant, error) {
	path, variant, err := Locate(dir, s.spec.TargetFile)
	if err != nil {
		return "", NotFound, err
	}
	if variant != NotFound {
		return path, variant, nil
	}

	line, err := s.rev.Input().ReadLine(fmt.Sprintf(
		"%s not found in %s; enter filename or leave empty to skip> ",
		s.spec.TargetFile, dir))
	if err != nil {
		return "", NotFound, fmt.Errorf("failed to read override: %w", err)
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return "", NotFound, ErrSubmissionMissing
	}
	override := filepath.Join(dir, name)
	if _, err := os.Stat(override); err != nil {
		return "", NotFound, ErrSubmissionMissing
	}
	return override, ExtStripped, nil
}

func (s *Session) listStudents() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.SubmissionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions dir: %w", err)
	}
	students := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			students = append(students, e.Name())
		}
	}
	return students, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
