package progress

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for use from the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFrames(t *testing.T) {
	t.Parallel()

	if len(Frames) != 14 {
		t.Errorf("expected 14 frames, got %d", len(Frames))
	}
	for i, f := range Frames {
		if len(f) != 6 || f[0] != '[' || f[5] != ']' {
			t.Errorf("frame %d has unexpected shape %q", i, f)
		}
	}
	if DefaultInterval != 120*time.Millisecond {
		t.Errorf("expected 120ms interval, got %v", DefaultInterval)
	}
}

// TestSpinnerRun tests the animation loop.
func TestSpinnerRun(t *testing.T) {
	t.Parallel()

	t.Run("paints frames until cancelled", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		s := New(&out, "Retrieving response...", WithInterval(time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		deadline := time.After(2 * time.Second)
		for strings.Count(out.String(), "Retrieving response...") < 3 {
			select {
			case <-deadline:
				t.Fatalf("spinner did not repaint, output %q", out.String())
			default:
				time.Sleep(time.Millisecond)
			}
		}
		cancel()

		if err := <-done; err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		output := out.String()
		if !strings.Contains(output, Frames[0]) || !strings.Contains(output, Frames[1]) {
			t.Errorf("expected successive frames, got %q", output)
		}
	})

	t.Run("without animation paints nothing", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		s := New(&out, "Retrieving response...", WithAnimation(false))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if out.String() != "" {
			t.Errorf("expected no output, got %q", out.String())
		}
	})
}

func TestSpinnerFinish(t *testing.T) {
	t.Parallel()

	t.Run("after animation clears the line", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		s := New(&out, "working")
		s.paint()
		s.Finish("Response retrieved:")

		output := out.String()
		if !strings.HasSuffix(output, "Response retrieved:\x1b[0m\n") {
			t.Errorf("unexpected final line %q", output)
		}
		if strings.Count(output, clearLine) != 2 {
			t.Errorf("expected the frame and the status to start with a line clear, got %q", output)
		}
	})

	t.Run("without animation prints only the status", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		s := New(&out, "working", WithAnimation(false))
		s.Finish("done")

		output := out.String()
		if strings.Contains(output, clearLine) || strings.Contains(output, "working") {
			t.Errorf("expected plain status line, got %q", output)
		}
		if !strings.Contains(output, FinishFrame) {
			t.Errorf("expected finish frame, got %q", output)
		}
	})
}

func TestSpinnerClear(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	s := New(&out, "working")
	s.Clear()
	if out.String() != "" {
		t.Errorf("expected nothing to clear, got %q", out.String())
	}

	s.paint()
	s.Clear()
	if !strings.HasSuffix(out.String(), clearLine) {
		t.Errorf("expected trailing line clear, got %q", out.String())
	}
}
