// Package main provides the entry point for the wacli CLI.
//
// wacli sends natural-language queries to the Wolfram|Alpha Full Results API
// and prints the plaintext answer in the terminal.
//
// Usage:
//
//	wacli "integrate x^2 dx"
//	wacli -i "population of France"
//
// See --help for all available options.
package main

// main is the entry point for wacli.
func main() {
	Execute()
}
