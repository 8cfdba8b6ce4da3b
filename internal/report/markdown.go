package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/wacli/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// Each pod becomes a section; subpod plaintext goes into code blocks
// because it is often aligned tabular text that Markdown would reflow.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the document in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document, view View) (int, error) {
	md := markdown.NewMarkdown(w.output)
	qr := doc.QueryResult

	md.H1("Wolfram|Alpha Result")
	md.PlainText("")

	w.writeStatus(md, qr)

	pods := qr.VisiblePods(view.podLimit())
	for _, pod := range pods {
		w.writePod(md, pod)
	}

	if total := len(qr.VisiblePods(Full.podLimit())); len(pods) < total {
		md.Note(fmt.Sprintf("Showing %d of %d pods (%s view).", len(pods), total, view))
		md.PlainText("")
	}

	w.writeFooter(md, qr)

	return len(md.String()), md.Build()
}

// writeStatus writes an alert when the API did not return results.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, qr model.QueryResult) {
	switch {
	case qr.Error != nil:
		md.Warningf("Query failed: %s (code %s)", qr.Error.Msg, qr.Error.Code)
		md.PlainText("")
	case !qr.Succeeded():
		md.Warningf("Wolfram|Alpha could not interpret the input.")
		md.PlainText("")
	case qr.NumPods == 0:
		md.Note("No results.")
		md.PlainText("")
	}
}

// writePod writes one pod as a section.
func (w *MarkdownWriter) writePod(md *markdown.Markdown, pod model.Pod) {
	md.H2(pod.DisplayTitle())
	md.PlainText("")

	subpods := pod.VisibleSubpods()
	if len(subpods) == 0 {
		md.PlainText("_No subpods._")
		md.PlainText("")
		return
	}

	for _, subpod := range subpods {
		if subpod.Title != "" {
			md.PlainText("### " + subpod.Title)
			md.PlainText("")
		}
		writeCodeBlock(md, subpod.DisplayPlaintext())
		md.PlainText("")
	}
}

// writeCodeBlock writes text as a fenced block. The fence is made longer than
// any backtick run in text so the content cannot close it early.
func writeCodeBlock(md *markdown.Markdown, text string) {
	longest := longestBacktickRun(text)
	if longest < 3 {
		md.CodeBlocks(markdown.SyntaxHighlight("text"), text)
		return
	}
	fence := strings.Repeat("`", longest+1)
	md.PlainText(fence + "text")
	md.PlainText(text)
	md.PlainText(fence)
}

func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

// writeFooter writes the metadata table and the generator note.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, qr model.QueryResult) {
	rows := [][]string{
		{"Pods", strconv.FormatUint(qr.NumPods, 10)},
	}
	if qr.DataTypes != "" {
		rows = append(rows, []string{"Data types", strings.ReplaceAll(qr.DataTypes, ",", ", ")})
	}
	if qr.Timing > 0 {
		rows = append(rows, []string{"Timing", strconv.FormatFloat(qr.Timing, 'f', 3, 64) + "s"})
	}

	md.HorizontalRule()
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("*Generated by wacli*")
}
