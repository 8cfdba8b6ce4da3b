package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/text/cases"
)

// ErrInterrupted is returned by Terminal.ReadLine when the user presses Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of input after showing a prompt.
// It returns io.EOF when the input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Terminal is a LineReader backed by readline. It offers line editing and
// in-memory history when stdin is a terminal and plain line reads otherwise.
type Terminal struct {
	rl *readline.Instance
}

// NewTerminal creates a Terminal reading from in and echoing to out.
func NewTerminal(in io.ReadCloser, out io.Writer) (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Terminal{rl: rl}, nil
}

// ReadLine shows prompt and returns the next line without its line terminator.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	if err != nil {
		return "", readError(err)
	}
	return line, nil
}

// readError maps readline's interrupt to ErrInterrupted and passes other errors through.
func readError(err error) error {
	if errors.Is(err, readline.ErrInterrupt) {
		return ErrInterrupted
	}
	return err
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	return t.rl.Close()
}

// Normalize trims surrounding whitespace and case-folds s for command matching.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
