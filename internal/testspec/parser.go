package testspec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Line prefixes recognized by the spec grammar.
const (
	prefixInput   = "INPUT"
	prefixInfile  = "INFILE"
	prefixOutfile = "OUTFILE"
	prefixIO      = ">>>"
)

// parser state names; transitions are keyed on line prefixes.
type parseState int

const (
	seekingInput parseState = iota
	readingStdin
	readingInfiles
	readingAnswers
	readingStdout
	readingOutfiles
)

// ParseFile reads and parses the spec file at path.
func ParseFile(path string) (*AssignmentSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse converts the line-oriented spec text into an AssignmentSpec.
// The grammar is tolerant of unrecognized lines between sections; structural
// problems (short metadata, non-integer tokens, fewer runs than declared)
// fail with a *FormatError.
func Parse(r io.Reader) (*AssignmentSpec, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	spec := &AssignmentSpec{}
	lineNo := 0

	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}

	runCount, err := parseMetadata(spec, readLine, &lineNo)
	if err != nil {
		return nil, err
	}

	var cur *TestRun
	state := seekingInput

	finishRun := func() {
		if cur != nil {
			spec.Runs = append(spec.Runs, *cur)
			cur = nil
		}
	}
	startRun := func() {
		finishRun()
		cur = &TestRun{
			Infiles:  mapset.NewSet[string](),
			Outfiles: mapset.NewSet[string](),
			Answers:  mapset.NewSet[string](),
		}
		state = readingStdin
	}

	for {
		line, ok := readLine()
		if !ok {
			break
		}

		if strings.HasPrefix(line, prefixInput) {
			startRun()
			continue
		}
		if cur == nil {
			continue // tolerant scanning outside any run
		}

		// A line may be re-dispatched once after a state transition, so each
		// case either consumes the line or retargets the state and loops.
	dispatch:
		switch state {
		case readingStdin:
			switch {
			case strings.HasPrefix(line, prefixIO):
				cur.Inputs = append(cur.Inputs, stripIOPrefix(line))
			case strings.HasPrefix(line, prefixInfile):
				state = readingInfiles
				goto dispatch
			default:
				state = readingAnswers
				goto dispatch
			}
		case readingInfiles:
			switch {
			case strings.HasPrefix(line, prefixInfile):
				if tokens := strings.Fields(line); len(tokens) >= 2 {
					cur.Infiles.Add(tokens[1])
				}
			case strings.HasPrefix(line, prefixIO):
				state = readingStdout
				goto dispatch
			default:
				state = readingAnswers
				goto dispatch
			}
		case readingAnswers:
			// At most one keyword line sits between the input sections and
			// the expected stdout; all tokens after the first are keywords.
			if strings.HasPrefix(line, prefixIO) || strings.HasPrefix(line, prefixOutfile) {
				state = readingStdout
				goto dispatch
			}
			if tokens := strings.Fields(line); len(tokens) >= 2 {
				for _, kw := range tokens[1:] {
					cur.Answers.Add(kw)
				}
			}
			state = readingStdout
		case readingStdout:
			switch {
			case strings.HasPrefix(line, prefixIO):
				cur.Outputs = append(cur.Outputs, stripIOPrefix(line))
			case strings.HasPrefix(line, prefixOutfile):
				state = readingOutfiles
				goto dispatch
			default:
				// skipped, tolerant scanning
			}
		case readingOutfiles:
			if strings.HasPrefix(line, prefixOutfile) {
				if tokens := strings.Fields(line); len(tokens) >= 2 {
					cur.Outfiles.Add(tokens[1])
				}
			}
			// anything else before the next INPUT is skipped
		}
	}
	finishRun()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	if len(spec.Runs) < runCount {
		return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf(
			"spec declares %d runs but only %d found", runCount, len(spec.Runs))}
	}

	return spec, nil
}

// parseMetadata consumes the four header lines of the spec file.
func parseMetadata(spec *AssignmentSpec, readLine func() (string, bool), lineNo *int) (int, error) {
	lines := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		line, ok := readLine()
		if !ok {
			return 0, &FormatError{Line: *lineNo, Msg: "fewer than 4 metadata lines"}
		}
		lines = append(lines, line)
	}

	spec.Name = strings.TrimSpace(lines[0])

	tokens := strings.Fields(lines[1])
	if len(tokens) < 2 {
		return 0, &FormatError{Line: 2, Msg: "missing target filename token"}
	}
	spec.TargetFile = tokens[1]

	tokens = strings.Fields(lines[2])
	if len(tokens) < 3 {
		return 0, &FormatError{Line: 3, Msg: "missing due date tokens"}
	}
	day, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, &FormatError{Line: 3, Msg: fmt.Sprintf("due day %q is not an integer", tokens[1])}
	}
	month, err := strconv.Atoi(tokens[2])
	if err != nil {
		return 0, &FormatError{Line: 3, Msg: fmt.Sprintf("due month %q is not an integer", tokens[2])}
	}
	spec.DueDay = day
	spec.DueMonth = month

	tokens = strings.Fields(lines[3])
	if len(tokens) < 2 {
		return 0, &FormatError{Line: 4, Msg: "missing run count token"}
	}
	count, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, &FormatError{Line: 4, Msg: fmt.Sprintf("run count %q is not an integer", tokens[1])}
	}

	return count, nil
}

// stripIOPrefix removes the 4-character ">>> " marker from a stdin or
// expected-stdout line.
func stripIOPrefix(line string) string {
	if len(line) <= 4 {
		return ""
	}
	return line[4:]
}
