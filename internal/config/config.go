// Package config builds the structured logger shared by the CLI layer.
// The compiler core never sees a logger, only the code that talks to
// the user does.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger returns a logger at DebugLevel when debug is set, ErrorLevel
// when quiet is set, or the default level otherwise. debug takes priority
// over quiet if both are given.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
