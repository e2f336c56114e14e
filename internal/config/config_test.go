// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burge/burge/internal/config"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/pkg/errutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", false, flags(t))
	require.NoError(t, err)

	assert.Empty(t, cfg.Scenes)
	assert.Equal(t, config.DefaultStep, cfg.Step)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, geom.Viewport{Width: 800, Height: 450}, cfg.Viewport)
}

func TestLoad_FileThenFlags(t *testing.T) {
	path := writeConfig(t, `
scenes: [level.yaml, menu.yaml]
step: 20ms
frames: 100
log-format: text
viewport:
  width: 320
  height: 240
`)

	cfg, err := config.Load(path, false, flags(t, "--frames", "5", "--viewport-width", "640"))
	require.NoError(t, err)

	assert.Equal(t, []string{"level.yaml", "menu.yaml"}, cfg.Scenes)
	assert.Equal(t, 20*time.Millisecond, cfg.Step)
	assert.Equal(t, 5, cfg.Frames)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, geom.Viewport{Width: 640, Height: 240}, cfg.Viewport)
	require.NoError(t, cfg.Validate())
}

func TestLoad_WithoutFlags(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "scene: menu\n"), false, nil)
	require.NoError(t, err)
	assert.Equal(t, "menu", cfg.Scene)
	assert.Equal(t, config.DefaultStep, cfg.Step)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := config.Load(missing, false, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")

	cfg, err := config.Load(missing, true, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := config.Load(writeConfig(t, "stepp: 1s\n"), false, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		c := config.Default()
		c.Scenes = []string{"level.yaml"}
		return c
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no scenes", func(c *config.Config) { c.Scenes = nil }},
		{"zero step", func(c *config.Config) { c.Step = 0 }},
		{"negative frames", func(c *config.Config) { c.Frames = -1 }},
		{"bad format", func(c *config.Config) { c.LogFormat = "xml" }},
		{"bad level", func(c *config.Config) { c.LogLevel = "loud" }},
		{"empty viewport", func(c *config.Config) { c.Viewport.Height = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}

	c := valid()
	assert.NoError(t, c.Validate())
}
