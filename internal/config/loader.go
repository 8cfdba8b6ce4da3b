package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wacli"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// EnvAppID is the environment variable that supplies the API credential.
const EnvAppID = "WACLI_APPID"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .wacli configuration file.
// Pointer fields distinguish "not set" from the zero value, so a file can
// turn reinterpretation off or send a zero timeout.
type File struct {
	AppID         string `yaml:"appid,omitempty"`
	PodState      string `yaml:"podstate,omitempty"`
	TotalTimeout  *uint8 `yaml:"totaltimeout,omitempty"`
	PodTimeout    *uint8 `yaml:"podtimeout,omitempty"`
	FormatTimeout *uint8 `yaml:"formattimeout,omitempty"`
	ParseTimeout  *uint8 `yaml:"parsetimeout,omitempty"`
	ScanTimeout   *uint8 `yaml:"scantimeout,omitempty"`
	Reinterpret   *bool  `yaml:"reinterpret,omitempty"`
	Format        string `yaml:"format,omitempty"`
	View          string `yaml:"view,omitempty"`
	Proxy         string `yaml:"proxy,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wacli in the current directory
// 3. Look for .wacli in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ApplyTo copies the values set in the file into cfg.
// explicit reports whether a flag was given on the command line; those
// values win over the file and are left untouched.
func (f *File) ApplyTo(cfg *Config, explicit func(flag string) bool) {
	setString := func(flag, value string, dst *string) {
		if value != "" && !explicit(flag) {
			*dst = value
		}
	}
	setUint8 := func(flag string, value *uint8, dst *uint8) {
		if value != nil && !explicit(flag) {
			*dst = *value
		}
	}

	setString("appid", f.AppID, &cfg.AppID)
	setString("podstate", f.PodState, &cfg.PodState)
	setUint8("totaltimeout", f.TotalTimeout, &cfg.TotalTimeout)
	setUint8("podtimeout", f.PodTimeout, &cfg.PodTimeout)
	setUint8("formattimeout", f.FormatTimeout, &cfg.FormatTimeout)
	setUint8("parsetimeout", f.ParseTimeout, &cfg.ParseTimeout)
	setUint8("scantimeout", f.ScanTimeout, &cfg.ScanTimeout)
	if f.Reinterpret != nil && !explicit("reinterpret") {
		cfg.Reinterpret = *f.Reinterpret
	}
	setString("format", f.Format, &cfg.Format)
	setString("view", f.View, &cfg.View)
	setString("proxy", f.Proxy, &cfg.ProxyAddress)
}

// ApplyEnv overrides the API credential from WACLI_APPID unless --appid was given.
// It runs after ApplyTo, so the environment wins over the configuration file.
func ApplyEnv(cfg *Config, explicit func(flag string) bool) {
	if explicit("appid") {
		return
	}
	if appID, ok := os.LookupEnv(EnvAppID); ok && appID != "" {
		cfg.AppID = appID
	}
}
