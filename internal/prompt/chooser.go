package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/nao1215/wacli/internal/report"
)

// ViewQuestion is the question asked before every render.
const ViewQuestion = "Show full response?"

// ErrInvalidChoice is reported (not returned) when an answer is neither yes nor no.
var ErrInvalidChoice = errors.New("please answer yes or no")

// ViewChooser decides which report view to render.
type ViewChooser interface {
	ChooseView() (report.View, error)
}

// Fixed is a ViewChooser that always returns the same view without asking.
type Fixed report.View

// ChooseView implements ViewChooser.
func (f Fixed) ChooseView() (report.View, error) {
	return report.View(f), nil
}

// Ask is a ViewChooser that asks the user with a yes/no question.
// "yes" (the default) selects report.Full, "no" selects report.Summary.
type Ask struct {
	reader LineReader
	output io.Writer
	prompt string
}

// NewAsk creates an Ask chooser. Error messages for invalid answers go to output.
func NewAsk(reader LineReader, output io.Writer) *Ask {
	question := color.New(color.Bold)
	question.EnableColor()
	return &Ask{
		reader: reader,
		output: output,
		prompt: question.Sprint("? "+ViewQuestion) + " [Y/n] ",
	}
}

// ChooseView asks until it gets a valid answer.
// An empty answer or the end of input selects the default (yes).
func (a *Ask) ChooseView() (report.View, error) {
	for {
		line, err := a.reader.ReadLine(a.prompt)
		if errors.Is(err, io.EOF) {
			return report.Full, nil
		}
		if err != nil {
			return report.Full, err
		}

		switch Normalize(line) {
		case "", "y", "yes":
			return report.Full, nil
		case "n", "no":
			return report.Summary, nil
		default:
			fmt.Fprintln(a.output, ErrInvalidChoice)
		}
	}
}
