package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/wacli/internal/report"
	"github.com/nao1215/wacli/internal/wolfram"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wacli"

	// DefaultPodState asks the API for the step-by-step variant of each pod.
	DefaultPodState = "Step-by-step solution"

	// DefaultTimeout is the value of every timeout hint sent to the API, in seconds.
	// These are forwarded as query parameters only; the client itself never
	// bounds how long it waits for the response.
	DefaultTimeout uint8 = 30

	// DefaultAppID is the fallback API credential. It keeps the tool usable
	// without any setup; users should configure their own key via --appid,
	// WACLI_APPID or the configuration file.
	DefaultAppID = "H9V325-HTALUWHKGK"

	// DefaultReinterpret lets the API reinterpret ambiguous input.
	DefaultReinterpret = true

	// DefaultFormat is the renderer used for results.
	DefaultFormat = FormatText

	// DefaultView asks the user on every render whether to show the full response.
	DefaultView = ViewAsk
)

// Output formats accepted by --format.
const (
	FormatText     = report.FormatText
	FormatMarkdown = report.FormatMarkdown
	FormatJSON     = report.FormatJSON
)

// View selections accepted by --view.
const (
	// ViewAsk prompts before every render.
	ViewAsk = "ask"
	// ViewFull always renders every pod.
	ViewFull = "full"
	// ViewSummary always renders the first two pods.
	ViewSummary = "summary"
)

// Config holds all configuration options for wacli.
// It is populated from CLI flags, the environment and the configuration file,
// then passed through the application rather than kept in global state.
type Config struct {
	// Input is the natural-language query of the first request.
	// In interactive mode the session replaces it with every new line.
	Input string

	// Interactive enables the read-eval-print loop after the first answer.
	Interactive bool

	// PodState is an extra computation directive forwarded to the API.
	PodState string

	// TotalTimeout, PodTimeout, FormatTimeout, ParseTimeout and ScanTimeout
	// are timeout hints in seconds forwarded to the API.
	TotalTimeout  uint8
	PodTimeout    uint8
	FormatTimeout uint8
	ParseTimeout  uint8
	ScanTimeout   uint8

	// AppID is the API credential.
	AppID string

	// Reinterpret tells the API whether to reinterpret ambiguous input.
	Reinterpret bool

	// Format selects the renderer: text, markdown or json.
	Format string

	// View pre-answers the "show full response" prompt: ask, full or summary.
	View string

	// ProxyAddress routes requests through a SOCKS5 proxy when non-empty.
	// Format: "host:port".
	ProxyAddress string

	// Verbose enables debug logging on stderr.
	Verbose bool

	// ConfigFilePath is the configuration file given with --config.
	// If empty, the tool searches the default locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// Input is left empty because it has no default.
func NewConfig() *Config {
	return &Config{
		PodState:      DefaultPodState,
		TotalTimeout:  DefaultTimeout,
		PodTimeout:    DefaultTimeout,
		FormatTimeout: DefaultTimeout,
		ParseTimeout:  DefaultTimeout,
		ScanTimeout:   DefaultTimeout,
		AppID:         DefaultAppID,
		Reinterpret:   DefaultReinterpret,
		Format:        DefaultFormat,
		View:          DefaultView,
	}
}

// Query builds the query parameters for the current configuration.
func (c *Config) Query() wolfram.Query {
	return wolfram.Query{
		Input:         c.Input,
		PodState:      c.PodState,
		TotalTimeout:  c.TotalTimeout,
		PodTimeout:    c.PodTimeout,
		FormatTimeout: c.FormatTimeout,
		ParseTimeout:  c.ParseTimeout,
		ScanTimeout:   c.ScanTimeout,
		AppID:         c.AppID,
		Reinterpret:   c.Reinterpret,
	}
}

// XDGConfigDir returns the XDG config directory for wacli.
// On Linux: ~/.config/wacli
// On macOS: ~/Library/Application Support/wacli
// On Windows: %APPDATA%\wacli
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as an ArgumentError.
//
// The query options themselves are not range-checked: their types already
// bound them, and the API decides what it accepts.
func (c *Config) Validate() error {
	if c.Input == "" {
		return &ArgumentError{Arg: "input", Err: ErrNoInput}
	}

	switch c.Format {
	case FormatText, FormatMarkdown, FormatJSON:
	default:
		return &ArgumentError{Arg: "format", Value: c.Format, Err: ErrInvalidFormat}
	}

	switch c.View {
	case ViewAsk, ViewFull, ViewSummary:
	default:
		return &ArgumentError{Arg: "view", Value: c.View, Err: ErrInvalidView}
	}

	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return &ArgumentError{Arg: "proxy", Value: c.ProxyAddress, Err: ErrInvalidProxyAddress}
	}

	return nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
// We use a simple check rather than a full URL parser because the format
// is very specific (no scheme, no path, just host and port).
func isValidProxyAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}

	host, port := parts[0], parts[1]
	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}
