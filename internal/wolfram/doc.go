// Package wolfram implements the request side of the Wolfram|Alpha Full
// Results API: building the query string and sending the GET request.
//
// The package does not know the response schema. Fetch returns the raw body;
// package model decodes it and package report renders it.
//
// # Timeouts
//
// Query carries five timeout values. They are hints for the server and are
// sent as query parameters; the Client never bounds how long it waits.
// Cancellation is only possible through the context passed to Fetch.
package wolfram
