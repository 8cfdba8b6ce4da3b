package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DefaultInterval is the repaint period of the animation.
const DefaultInterval = 120 * time.Millisecond

// Frames is the animation cycle: a bar bouncing inside brackets.
var Frames = []string{
	"[    ]", "[=   ]", "[==  ]", "[=== ]", "[ ===]", "[  ==]", "[   =]",
	"[    ]", "[   =]", "[  ==]", "[ ===]", "[====]", "[=== ]", "[==  ]",
}

// FinishFrame replaces the animation once the spinner finishes.
const FinishFrame = "[=   ]"

// clearLine moves to the start of the line and erases it.
const clearLine = "\r\x1b[2K"

var (
	frameColor   = newColor(color.FgGreen)
	messageColor = newColor(color.FgYellow)
	successColor = newColor(color.FgGreen)
)

func newColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// Spinner paints an animated status line until it is finished.
//
// Run blocks and repaints on every tick; Finish and Clear end the line.
// The zero value is not usable; create spinners with New.
type Spinner struct {
	output   io.Writer
	message  string
	interval time.Duration
	animate  bool

	mu    sync.Mutex
	frame int
	drawn bool
}

// Option configures a Spinner.
type Option func(*Spinner)

// WithInterval overrides the repaint period.
func WithInterval(d time.Duration) Option {
	return func(s *Spinner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithAnimation enables or disables repainting. Disable it when the output
// is not a terminal; Finish still prints the final status line.
func WithAnimation(animate bool) Option {
	return func(s *Spinner) {
		s.animate = animate
	}
}

// New creates a spinner that shows message on output.
func New(output io.Writer, message string, opts ...Option) *Spinner {
	s := &Spinner{
		output:   output,
		message:  message,
		interval: DefaultInterval,
		animate:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run paints the first frame immediately and then one frame per tick until
// ctx is done. It always returns nil so it can run inside an errgroup
// without cancelling its siblings.
func (s *Spinner) Run(ctx context.Context) error {
	if !s.animate {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.paint()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.paint()
		}
	}
}

// paint draws the current frame and advances the cycle.
func (s *Spinner) paint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.output, "%s%s %s", clearLine, frameColor.Sprint(Frames[s.frame]), messageColor.Sprint(s.message))
	s.frame = (s.frame + 1) % len(Frames)
	s.drawn = true
}

// Finish replaces the spinner line with the finish frame and a success message.
func (s *Spinner) Finish(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := ""
	if s.drawn {
		prefix = clearLine
	}
	fmt.Fprintf(s.output, "%s%s %s\n", prefix, frameColor.Sprint(FinishFrame), successColor.Sprint(message))
	s.drawn = false
}

// Clear erases the spinner line, leaving the cursor at its start.
func (s *Spinner) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawn {
		io.WriteString(s.output, clearLine) //nolint:errcheck // cosmetic output
		s.drawn = false
	}
}
