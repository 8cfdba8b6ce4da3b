package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/wacli/internal/model"
	"github.com/nao1215/wacli/internal/progress"
	"github.com/nao1215/wacli/internal/prompt"
	"github.com/nao1215/wacli/internal/report"
	"github.com/nao1215/wacli/internal/wolfram"
)

const resultBody = `{"queryresult": {"success": true, "numpods": 2, "pods": [
	{"title": "Input", "numsubpods": 1, "subpods": [{"plaintext": "2+2"}]},
	{"title": "Result", "numsubpods": 1, "subpods": [{"plaintext": "4"}]}
]}}`

// fakeFetcher records queries and replays responses in order.
// Once the responses run out, the last one is repeated.
type fakeFetcher struct {
	mu        sync.Mutex
	queries   []wolfram.Query
	responses []fakeResponse
}

type fakeResponse struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, q wolfram.Query) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	idx := min(len(f.queries), len(f.responses)) - 1
	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func (f *fakeFetcher) calls() []wolfram.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]wolfram.Query(nil), f.queries...)
}

// scriptedReader returns its lines in order and then io.EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) ReadLine(p string) (string, error) {
	r.prompts = append(r.prompts, p)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// errorReader fails every read with err.
type errorReader struct {
	err error
}

func (r errorReader) ReadLine(string) (string, error) {
	return "", r.err
}

// flakyChooser fails the calls listed in failOn (1-based) and returns Full otherwise.
type flakyChooser struct {
	calls  int
	failOn map[int]error
}

func (c *flakyChooser) ChooseView() (report.View, error) {
	c.calls++
	if err, ok := c.failOn[c.calls]; ok {
		return report.Full, err
	}
	return report.Full, nil
}

// flakyWriter behaves like flakyChooser for Write.
type flakyWriter struct {
	calls  int
	failOn map[int]error
}

func (w *flakyWriter) Write(*model.Document, report.View) (int, error) {
	w.calls++
	if err, ok := w.failOn[w.calls]; ok {
		return 0, err
	}
	return 0, nil
}

func startQuery() wolfram.Query {
	return wolfram.Query{
		Input:         "2+2",
		PodState:      "Step-by-step solution",
		TotalTimeout:  30,
		PodTimeout:    30,
		FormatTimeout: 30,
		ParseTimeout:  30,
		ScanTimeout:   30,
		AppID:         "TEST-APPID",
		Reinterpret:   true,
	}
}

func newTestSession(fetcher Fetcher, output io.Writer, opts ...Option) *Session {
	opts = append([]Option{
		WithOutput(output),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSpinnerOptions(progress.WithAnimation(false)),
	}, opts...)
	return New(fetcher, startQuery(), opts...)
}

// TestRunOnce tests the one-shot cycle.
func TestRunOnce(t *testing.T) {
	t.Parallel()

	t.Run("prints status line then the report", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out)

		if err := s.RunOnce(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		statusIdx := strings.Index(output, RetrievedMessage)
		reportIdx := strings.Index(output, "Input")
		if statusIdx < 0 || reportIdx < 0 || statusIdx > reportIdx {
			t.Errorf("expected status line before report, got %q", output)
		}
		if !strings.Contains(output, progress.FinishFrame) {
			t.Errorf("expected finish frame, got %q", output)
		}
		if len(fetcher.calls()) != 1 {
			t.Errorf("expected 1 request, got %d", len(fetcher.calls()))
		}
	})

	t.Run("summary view limits pods", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out, WithViewChooser(prompt.Fixed(report.Summary)))

		if err := s.RunOnce(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Result") {
			t.Errorf("expected both pods within summary limit, got %q", out.String())
		}
	})

	t.Run("transport failure prints error and writes no report", func(t *testing.T) {
		t.Parallel()

		cause := &wolfram.TransportError{Op: "send", URL: "http://example", Err: errors.New("connection refused")}
		fetcher := &fakeFetcher{responses: []fakeResponse{{err: cause}}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out)

		err := s.RunOnce(context.Background())
		var transportErr *wolfram.TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected TransportError, got %T: %v", err, err)
		}
		if !strings.Contains(out.String(), "connection refused") {
			t.Errorf("expected error on output, got %q", out.String())
		}
		if strings.Contains(out.String(), RetrievedMessage) {
			t.Errorf("expected no status line after failure, got %q", out.String())
		}
	})

	t.Run("malformed body returns DecodeError", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: "<html>"}}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out)

		err := s.RunOnce(context.Background())
		var decodeErr *model.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected DecodeError, got %T: %v", err, err)
		}
		if strings.Contains(out.String(), "Input") {
			t.Errorf("expected no report, got %q", out.String())
		}
	})

	t.Run("api error renders empty report", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: `{"queryresult": {"success": false, "error": {"code": "1", "msg": "Invalid appid"}}}`}}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out)

		if err := s.RunOnce(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(out.String(), RetrievedMessage+"\x1b[0m\n\n") {
			t.Errorf("expected empty report after status line, got %q", out.String())
		}
	})
}

// TestRunInteractive tests the read-eval loop.
func TestRunInteractive(t *testing.T) {
	t.Parallel()

	t.Run("exit ends the session without another request", func(t *testing.T) {
		t.Parallel()

		for _, line := range []string{"exit", "EXIT", "  Exit\t"} {
			fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
			reader := &scriptedReader{lines: []string{line, "never read"}}
			s := newTestSession(fetcher, io.Discard, WithLineReader(reader))

			if err := s.RunInteractive(context.Background()); err != nil {
				t.Fatalf("line %q: unexpected error: %v", line, err)
			}
			if n := len(fetcher.calls()); n != 1 {
				t.Errorf("line %q: expected 1 request, got %d", line, n)
			}
			if len(reader.lines) != 1 {
				t.Errorf("line %q: expected the loop to stop reading", line)
			}
		}
	})

	t.Run("each line replaces only the input", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		reader := &scriptedReader{lines: []string{"  sin(x) ", "exit please", "exit"}}
		s := newTestSession(fetcher, io.Discard, WithLineReader(reader))

		if err := s.RunInteractive(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		calls := fetcher.calls()
		wantInputs := []string{"2+2", "  sin(x) ", "exit please"}
		if len(calls) != len(wantInputs) {
			t.Fatalf("expected %d requests, got %d", len(wantInputs), len(calls))
		}
		for i, want := range wantInputs {
			if calls[i].Input != want {
				t.Errorf("request %d: expected input %q, got %q", i, want, calls[i].Input)
			}
			if calls[i].WithInput("2+2") != startQuery() {
				t.Errorf("request %d: expected other parameters unchanged, got %+v", i, calls[i])
			}
		}
		if s.Query().Input != "exit please" {
			t.Errorf("expected last input kept, got %q", s.Query().Input)
		}
	})

	t.Run("end of input ends the session", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		reader := &scriptedReader{}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out, WithLineReader(reader))

		if err := s.RunInteractive(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reader.prompts) != 1 || !strings.Contains(reader.prompts[0], InputPrompt) {
			t.Errorf("expected one input prompt, got %q", reader.prompts)
		}
	})

	t.Run("interrupt ends the session", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		s := newTestSession(fetcher, io.Discard, WithLineReader(errorReader{err: prompt.ErrInterrupted}))

		if err := s.RunInteractive(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("read failure is returned", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("tty gone")
		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		s := newTestSession(fetcher, io.Discard, WithLineReader(errorReader{err: cause}))

		if err := s.RunInteractive(context.Background()); !errors.Is(err, cause) {
			t.Errorf("expected %v, got %v", cause, err)
		}
	})

	t.Run("initial failure ends the session", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{err: errors.New("offline")}}}
		reader := &scriptedReader{lines: []string{"1+1"}}
		s := newTestSession(fetcher, io.Discard, WithLineReader(reader))

		if err := s.RunInteractive(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if len(reader.prompts) != 0 {
			t.Error("expected no prompt after initial failure")
		}
	})

	t.Run("failure inside the loop returns to the prompt", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{
			{body: resultBody},
			{body: "not json"},
			{body: resultBody},
		}}
		reader := &scriptedReader{lines: []string{"bad", "good", "exit"}}
		var out bytes.Buffer
		s := newTestSession(fetcher, &out, WithLineReader(reader))

		if err := s.RunInteractive(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(fetcher.calls()); n != 3 {
			t.Errorf("expected 3 requests, got %d", n)
		}
		if !strings.Contains(out.String(), "decode error") {
			t.Errorf("expected decode error on output, got %q", out.String())
		}
	})

	t.Run("view and write failures inside the loop are printed", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name string
			opt  func(err error) Option
			want string
		}{
			{
				name: "view chooser",
				opt: func(err error) Option {
					return WithViewChooser(&flakyChooser{failOn: map[int]error{2: err}})
				},
				want: "Error: failed to choose view: terminal gone",
			},
			{
				name: "writer",
				opt: func(err error) Option {
					return WithWriter(&flakyWriter{failOn: map[int]error{2: err}})
				},
				want: "Error: failed to write result: terminal gone",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
				reader := &scriptedReader{lines: []string{"1+1", "3+3", "exit"}}
				var out bytes.Buffer
				s := newTestSession(fetcher, &out, WithLineReader(reader), tc.opt(errors.New("terminal gone")))

				if err := s.RunInteractive(context.Background()); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out.String(), tc.want) {
					t.Errorf("expected %q on output, got %q", tc.want, out.String())
				}
				if n := len(fetcher.calls()); n != 3 {
					t.Errorf("expected the loop to continue to 3 requests, got %d", n)
				}
			})
		}
	})

	t.Run("missing line reader returns error", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{responses: []fakeResponse{{body: resultBody}}}
		s := newTestSession(fetcher, io.Discard)

		if err := s.RunInteractive(context.Background()); err == nil {
			t.Error("expected error")
		}
		if len(fetcher.calls()) != 0 {
			t.Error("expected no request")
		}
	})
}

// TestSessionWithClient runs a session against an httptest server.
func TestSessionWithClient(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var inputs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inputs = append(inputs, r.URL.Query().Get("input"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resultBody))
	}))
	defer server.Close()

	client, err := wolfram.NewClient(wolfram.WithEndpoint(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader := &scriptedReader{lines: []string{"3 * 3", "exit"}}
	var out bytes.Buffer
	s := newTestSession(client, &out, WithLineReader(reader))

	if err := s.RunInteractive(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(inputs) != 2 || inputs[0] != "2+2" || inputs[1] != "3 * 3" {
		t.Errorf("unexpected inputs sent: %q", inputs)
	}
	if strings.Count(out.String(), RetrievedMessage) != 2 {
		t.Errorf("expected two status lines, got %q", out.String())
	}
}
