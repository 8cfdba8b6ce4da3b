// Package session drives one-shot and interactive use of wacli.
//
// A Session owns the query state. The only field that changes between
// requests is the input text, replaced by each line typed in interactive
// mode; every other parameter stays as given at start-up.
//
// Each cycle runs fetch, decode, choose view, render. In interactive mode a
// failed cycle after the first one is reported and the loop returns to the
// prompt; a failure of the first cycle ends the session.
package session
