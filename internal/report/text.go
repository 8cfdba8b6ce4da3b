package report

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/wacli/internal/model"
)

// titleColor highlights pod titles. It stays on when stdout is not a terminal.
var titleColor = func() *color.Color {
	c := color.New(color.FgYellow)
	c.EnableColor()
	return c
}()

// Render returns the plain-text rendering of doc.
//
// Each visible pod contributes its title (yellow) on one line followed by
// the plaintext of each visible subpod on its own line. A document without
// a pod count renders as the empty string.
func Render(doc *model.Document, view View) string {
	var sb strings.Builder
	for _, pod := range doc.QueryResult.VisiblePods(view.podLimit()) {
		sb.WriteString(titleColor.Sprint(pod.DisplayTitle()))
		sb.WriteString("\n")
		for _, subpod := range pod.VisibleSubpods() {
			sb.WriteString(subpod.DisplayPlaintext())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// TextWriter outputs the colored plain-text rendering.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs Render(doc, view) followed by a blank line.
func (w *TextWriter) Write(doc *model.Document, view View) (int, error) {
	return io.WriteString(w.output, Render(doc, view)+"\n")
}
