package main

import (
	"testing"

	"github.com/bastiangx/wordassist/pkg/config"
	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/stretchr/testify/assert"
)

func TestSessionOptionsMode(t *testing.T) {
	testCases := []struct {
		name string
		mode string
		url  string
		want session.Mode
	}{
		{"hybrid without url falls back", "hybrid", "", session.ModeLocal},
		{"remote without url falls back", "remote", "", session.ModeLocal},
		{"local stays local", "local", "http://localhost:8000", session.ModeLocal},
		{"remote with url", "remote", "http://localhost:8000", session.ModeRemote},
		{"hybrid with url", "hybrid", "http://localhost:8000", session.ModeHybrid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Engine.Mode = tc.mode
			cfg.Remote.URL = tc.url

			opts, mode := sessionOptions(cfg, surface.NewMemory())
			assert.Equal(t, tc.want, mode)
			assert.Equal(t, tc.want, session.New(surface.NewMemory(), opts...).Mode())
		})
	}
}
