// Package report renders decoded Wolfram|Alpha results.
//
// Rendering is a pure function of the document and a View. Asking the user
// which View to use is done by package prompt.
//
// Writers:
//   - TextWriter: terminal output, pod titles highlighted with ANSI colors
//   - MarkdownWriter: GitHub Flavored Markdown for notes and sharing
//   - JSONWriter: the selected pods as indented JSON for scripting
package report
