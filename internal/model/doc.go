// Package model defines the Wolfram|Alpha result document and its decoder.
//
// The API response is decoded leniently: only malformed JSON is an error.
// Missing or mistyped fields fall back to defined values ("No title",
// "No plaintext", zero counts), mirroring how the renderers treat them.
//
// Declared counts (numpods, numsubpods) are kept separately from the decoded
// arrays because the API's counts are what the renderers iterate over; the
// renderers clamp them to the array lengths.
package model
