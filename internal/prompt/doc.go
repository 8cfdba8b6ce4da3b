// Package prompt reads interactive input: the query lines of the
// read-eval-print loop and the yes/no answer that selects the report view.
//
// Terminal is the readline-backed implementation used by the CLI. Everything
// else depends on the LineReader interface so tests can script the answers.
package prompt
