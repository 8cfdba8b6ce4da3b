package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wacli/internal/model"
)

// JSONWriter outputs the visible part of a result as JSON.
// The shape is flattened and fallbacks are applied, so consumers never see
// missing titles or a mismatch between counts and arrays.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonResult is the serialized form of a rendered result.
type jsonResult struct {
	Success   bool            `json:"success"`
	Error     *model.APIError `json:"error,omitempty"`
	View      string          `json:"view"`
	NumPods   uint64          `json:"numpods"`
	Timing    float64         `json:"timing,omitempty"`
	DataTypes string          `json:"datatypes,omitempty"`
	Pods      []jsonPod       `json:"pods"`
}

type jsonPod struct {
	Title   string   `json:"title"`
	ID      string   `json:"id,omitempty"`
	Subpods []string `json:"subpods"`
}

// Write outputs the document in JSON format.
func (w *JSONWriter) Write(doc *model.Document, view View) (int, error) {
	qr := doc.QueryResult
	result := jsonResult{
		Success:   qr.Succeeded(),
		Error:     qr.Error,
		View:      view.String(),
		NumPods:   qr.NumPods,
		Timing:    qr.Timing,
		DataTypes: qr.DataTypes,
		Pods:      []jsonPod{},
	}
	for _, pod := range qr.VisiblePods(view.podLimit()) {
		p := jsonPod{
			Title:   pod.DisplayTitle(),
			ID:      pod.ID,
			Subpods: []string{},
		}
		for _, subpod := range pod.VisibleSubpods() {
			p.Subpods = append(p.Subpods, subpod.DisplayPlaintext())
		}
		result.Pods = append(result.Pods, p)
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(result, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
