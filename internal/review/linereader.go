package review

import (
	"path/filepath"

	"github.com/chzyer/readline"
)

// LineReader abstracts operator text input so the review loop can be driven
// by a terminal in production and by a script in tests.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ReadlineReader reads operator input with line editing and history.
type ReadlineReader struct {
	rl *readline.Instance
}

func NewReadlineReader(historyDir string) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     filepath.Join(historyDir, ".grader_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// ScriptReader replays a fixed sequence of lines; once exhausted it keeps
// returning empty lines (the accept command).
type ScriptReader struct {
	Lines []string
	pos   int
}

func (s *ScriptReader) ReadLine(string) (string, error) {
	if s.pos >= len(s.Lines) {
		return "", nil
	}
	line := s.Lines[s.pos]
	s.pos++
	return line, nil
}
