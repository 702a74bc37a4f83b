// Package transcript writes the session audit log: every execution's
// captured output and every finalized grade, as zstd-compressed JSON lines.
// The log is an operational record, not an input to grading.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/gradelab/grader/api"
)

type Writer struct {
	mu  sync.Mutex
	f   *os.File
	zw  *zstd.Encoder
	enc *json.Encoder
}

func New(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	return &Writer{f: f, zw: zw, enc: json.NewEncoder(zw)}, nil
}

type executionLine struct {
	Kind      string `json:"kind"`
	Time      string `json:"time"`
	Student   string `json:"student"`
	RunId     int    `json:"run_id"`
	Stdout    string `json:"stdout"`
	Stderr    string `json:"stderr"`
	Succeeded bool   `json:"succeeded"`
	Cancelled bool   `json:"cancelled"`
}

type gradeLine struct {
	Kind   string          `json:"kind"`
	Time   string          `json:"time"`
	Record api.GradeRecord `json:"record"`
}

func (w *Writer) Execution(student string, runId int, stdout, stderr string, succeeded, cancelled bool) {
	w.write(executionLine{
		Kind:      "execution",
		Time:      time.Now().Format(time.RFC3339),
		Student:   student,
		RunId:     runId,
		Stdout:    stdout,
		Stderr:    stderr,
		Succeeded: succeeded,
		Cancelled: cancelled,
	})
}

func (w *Writer) Grade(rec api.GradeRecord) {
	w.write(gradeLine{
		Kind:   "grade",
		Time:   time.Now().Format(time.RFC3339),
		Record: rec,
	})
}

func (w *Writer) write(v any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// an unwritable transcript must not interrupt grading
	_ = w.enc.Encode(v)
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.zw.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close transcript file: %w", err)
	}
	return nil
}
