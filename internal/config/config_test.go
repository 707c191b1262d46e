package config

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		quiet bool
	}{
		{name: "default"},
		{name: "debug", debug: true},
		{name: "quiet", quiet: true},
		{name: "debug takes priority over quiet", debug: true, quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := CreateLogger(tt.debug, tt.quiet)
			assert.True(t, logger != nil)
		})
	}
}
