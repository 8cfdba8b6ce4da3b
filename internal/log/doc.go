// Package log provides the wacli logger: a log/slog text handler wrapped in
// a SecureHandler that masks credentials before they reach the output.
//
// # Security Features
//
// The SecureHandler sanitizes:
//   - the Wolfram|Alpha application id (appid, app_id) under any key
//   - appid query parameters embedded in URLs and error strings
//   - HTTP credentials (Authorization, Proxy-Authorization, Cookie)
//   - values that look like tokens (JWT, Bearer, Basic, long keys)
//
// Masking applies in verbose mode too, so debug logs can be shared.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("sending request", "url", "https://api.wolframalpha.com/v2/query?appid=XYZ")
//	// url=https://api.wolframalpha.com/v2/query?appid=***REDACTED***
package log
