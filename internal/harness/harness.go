// Package harness runs one submission as a child process for one test run:
// scripted stdin in, captured stdout/stderr out. It deliberately knows
// nothing about scoring; it only reports what the process did.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gradelab/grader/internal/testspec"
)

// Result is the outcome of executing one test run against one submission.
// Failure and cancellation are distinct: a cancelled run was stopped by the
// operator, not faulted by the program.
type Result struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	Cancelled bool

	// StagedFiles are the input files copied into the working directory for
	// this run; the caller removes them once scoring completes.
	StagedFiles []string
}

// Harness executes submissions with a configured interpreter command.
type Harness struct {
	// RunCommand is the argv prefix the submission path is appended to,
	// e.g. ["python3"].
	RunCommand []string
	// DataDir is where the assignment's input files live.
	DataDir string
	// Timeout is the per-run wall clock limit; zero means no limit.
	Timeout time.Duration
}

// Execute stages the run's input files, launches the submission, feeds the
// scripted stdin lines in order, and collects all output once the process
// terminates. Cancelling ctx kills the process and marks the result
// cancelled rather than failed.
func (h *Harness) Execute(ctx context.Context, submissionPath string, run testspec.TestRun) (*Result, error) {
	res := &Result{}

	workDir := workDirOf(submissionPath)
	staged, err := stageInfiles(h.DataDir, workDir, run.Infiles)
	res.StagedFiles = staged
	if err != nil {
		return res, fmt.Errorf("failed to stage input files: %w", err)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if h.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	if len(h.RunCommand) == 0 {
		return res, errors.New("no run command configured")
	}
	argv := append(append([]string{}, h.RunCommand...), submissionPath)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = workDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return res, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return res, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return res, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		// Launch failure is a graded outcome, not an internal error.
		res.Succeeded = false
		res.Stderr = err.Error()
		return res, nil
	}

	var outText, errText string
	grp := &errgroup.Group{}
	grp.Go(func() error {
		defer stdin.Close()
		for _, line := range run.Inputs {
			// The program may exit before consuming all of its script;
			// a broken pipe here is not a harness fault.
			if _, err := io.WriteString(stdin, line+"\n"); err != nil {
				return nil
			}
		}
		return nil
	})
	grp.Go(func() error {
		b, err := io.ReadAll(stdout)
		outText = string(b)
		return err
	})
	grp.Go(func() error {
		b, err := io.ReadAll(stderr)
		errText = string(b)
		return err
	})

	readErr := grp.Wait()
	waitErr := cmd.Wait()

	res.Stdout = outText
	res.Stderr = errText

	if ctx.Err() == context.Canceled {
		res.Cancelled = true
		res.Succeeded = false
		return res, nil
	}
	if readErr != nil && runCtx.Err() == nil {
		return res, fmt.Errorf("failed to read process output: %w", readErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && runCtx.Err() == nil {
			return res, fmt.Errorf("failed to wait for process: %w", waitErr)
		}
	}

	res.Succeeded = runCtx.Err() == nil && !StderrIndicatesError(errText)
	return res, nil
}

// StderrIndicatesError is the heuristic proxy for an uncaught fault: any
// case-insensitive "error" in stderr. False positives on output that merely
// mentions errors are accepted scoring policy.
func StderrIndicatesError(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "error")
}
