package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/nao1215/wacli/internal/model"
	"github.com/nao1215/wacli/internal/progress"
	"github.com/nao1215/wacli/internal/prompt"
	"github.com/nao1215/wacli/internal/report"
	"github.com/nao1215/wacli/internal/wolfram"
	"golang.org/x/sync/errgroup"
)

// Messages shown around a request.
const (
	RetrievingMessage = "Retrieving response..."
	RetrievedMessage  = "Response retrieved:"
	InputPrompt       = "Enter your input: "
)

// ExitCommand ends an interactive session. It is matched after trimming and case folding.
const ExitCommand = "exit"

// Fetcher sends a query and returns the raw response body.
// *wolfram.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q wolfram.Query) ([]byte, error)
}

// Session runs query cycles against a Fetcher.
type Session struct {
	fetcher Fetcher
	query   wolfram.Query
	chooser prompt.ViewChooser
	reader  prompt.LineReader
	writer  report.Writer
	output  io.Writer
	logger  *slog.Logger

	spinnerOpts []progress.Option
}

// Option configures a Session.
type Option func(*Session)

// WithViewChooser sets how the report view is chosen. Defaults to prompt.Fixed(report.Full).
func WithViewChooser(chooser prompt.ViewChooser) Option {
	return func(s *Session) {
		s.chooser = chooser
	}
}

// WithLineReader sets the source of interactive input lines.
func WithLineReader(reader prompt.LineReader) Option {
	return func(s *Session) {
		s.reader = reader
	}
}

// WithWriter sets the report writer. Defaults to a TextWriter on the output.
func WithWriter(writer report.Writer) Option {
	return func(s *Session) {
		s.writer = writer
	}
}

// WithOutput sets where the spinner, prompts and errors are printed. Defaults to io.Discard.
func WithOutput(output io.Writer) Option {
	return func(s *Session) {
		s.output = output
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSpinnerOptions configures the progress spinner shown during requests.
func WithSpinnerOptions(opts ...progress.Option) Option {
	return func(s *Session) {
		s.spinnerOpts = append(s.spinnerOpts, opts...)
	}
}

// New creates a session that starts with query q.
func New(fetcher Fetcher, q wolfram.Query, opts ...Option) *Session {
	s := &Session{
		fetcher: fetcher,
		query:   q,
		chooser: prompt.Fixed(report.Full),
		output:  io.Discard,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.writer == nil {
		s.writer = report.NewTextWriter(s.output)
	}
	return s
}

// Query returns the parameters the next request will use.
func (s *Session) Query() wolfram.Query {
	return s.query
}

// RunOnce performs a single cycle with the current query.
func (s *Session) RunOnce(ctx context.Context) error {
	return s.cycle(ctx)
}

// RunInteractive performs a cycle with the current query and then reads
// one line per cycle until "exit", end of input, or Ctrl-C.
func (s *Session) RunInteractive(ctx context.Context) error {
	if s.reader == nil {
		return errors.New("interactive session requires a line reader")
	}

	if err := s.cycle(ctx); err != nil {
		return err
	}

	inputPrompt := promptColor.Sprint(InputPrompt)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.reader.ReadLine(inputPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, prompt.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if prompt.Normalize(line) == ExitCommand {
			return nil
		}

		s.query = s.query.WithInput(line)
		if err := s.cycle(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.logger.Debug("cycle failed, returning to prompt", "error", err)
		}
	}
}

var (
	promptColor = newColor(color.FgGreen)
	errorColor  = newColor(color.FgRed)
)

func newColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// cycle fetches, decodes, asks for the view and writes the report.
// Every failure is printed to the output before being returned.
func (s *Session) cycle(ctx context.Context) error {
	body, err := s.fetch(ctx)
	if err != nil {
		s.printError(err)
		return err
	}

	doc, err := model.Decode(body)
	if err != nil {
		s.printError(err)
		return err
	}
	s.logResult(doc.QueryResult)

	view, err := s.chooser.ChooseView()
	if err != nil {
		err = fmt.Errorf("failed to choose view: %w", err)
		s.printError(err)
		return err
	}

	if _, err := s.writer.Write(doc, view); err != nil {
		err = fmt.Errorf("failed to write result: %w", err)
		s.printError(err)
		return err
	}
	return nil
}

// fetch runs the request while the spinner animates.
func (s *Session) fetch(ctx context.Context) ([]byte, error) {
	spinner := progress.New(s.output, RetrievingMessage, s.spinnerOpts...)

	spinCtx, stopSpinner := context.WithCancel(ctx)
	defer stopSpinner()

	var body []byte
	g, gctx := errgroup.WithContext(spinCtx)
	g.Go(func() error {
		return spinner.Run(gctx)
	})
	g.Go(func() error {
		defer stopSpinner()
		var err error
		body, err = s.fetcher.Fetch(ctx, s.query)
		return err
	})

	if err := g.Wait(); err != nil {
		spinner.Clear()
		return nil, err
	}
	spinner.Finish(RetrievedMessage)
	return body, nil
}

// printError shows err on the session output.
func (s *Session) printError(err error) {
	fmt.Fprintln(s.output, errorColor.Sprint("Error: "+err.Error()))
}

// logResult reports API-level outcomes that the text rendering does not show.
func (s *Session) logResult(qr model.QueryResult) {
	switch {
	case qr.Error != nil:
		s.logger.Warn("Wolfram|Alpha returned an error", "code", qr.Error.Code, "message", qr.Error.Msg)
	case !qr.Succeeded():
		s.logger.Warn("Wolfram|Alpha could not interpret the input", "input", s.query.Input)
	}
	s.logger.Debug("result decoded",
		"numpods", qr.NumPods,
		"pods", len(qr.Pods),
		"timing", qr.Timing,
		"datatypes", qr.DataTypes,
	)
}
