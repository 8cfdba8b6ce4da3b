// Package config provides configuration structures and utilities for wacli.
// It defines the query options sent to Wolfram|Alpha, the presentation
// preferences, and the loading of the optional .wacli configuration file.
package config
