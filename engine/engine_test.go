// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, FixedSize, cfg.Sizing)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.ClearColor)
	if cfg.logger() == nil || cfg.clock() == nil {
		t.Fatal("Config: missing default logger or clock")
	}
}

func TestValidate(t *testing.T) {
	for _, x := range [...]struct {
		edit func(*Config)
		ok   bool
	}{
		{func(*Config) {}, true},
		{func(c *Config) { c.Sizing = UserDefined; c.Width = 0 }, true},
		{func(c *Config) { c.Width = 0 }, false},
		{func(c *Config) { c.Height = -1 }, false},
		{func(c *Config) { c.Sizing = Sizing(3) }, false},
		{func(c *Config) { c.Sizing = -1 }, false},
		{func(c *Config) { c.ClearColor[2] = 1.5 }, false},
	} {
		cfg := DefaultConfig()
		x.edit(&cfg)
		if err := cfg.Validate(); (err == nil) != x.ok {
			t.Fatalf("Config.Validate(%+v)\nhave %v\nwant ok=%t", cfg, err, x.ok)
		}
	}
}

func TestSizingText(t *testing.T) {
	for _, s := range [...]Sizing{FullScreen, FixedSize, UserDefined} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, s.String(), string(b))
		var u Sizing
		require.NoError(t, u.UnmarshalText(b))
		assert.Equal(t, s, u)
	}
	var s Sizing
	if err := s.UnmarshalText([]byte("stretched")); err == nil {
		t.Fatal("Sizing.UnmarshalText: expected error")
	}
	if _, err := Sizing(7).MarshalText(); err == nil {
		t.Fatal("Sizing.MarshalText: expected error")
	}
	assert.Equal(t, "Sizing(7)", Sizing(7).String())
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
driver = "opengl"
sizing = "user"
clear_color = [0.1, 0.2, 0.3, 1.0]
`))
	require.NoError(t, err)
	assert.Equal(t, "opengl", cfg.Driver)
	assert.Equal(t, UserDefined, cfg.Sizing)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.ClearColor)
	// Missing fields keep the defaults.
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	for _, s := range [...]string{
		`sizing = "stretched"`,
		`unknown = 1`,
		"sizing = \"fixed\"\nwidth = 0",
		`width = "wide"`,
		`clear_color = [2.0, 0.0, 0.0, 1.0]`,
	} {
		if _, err := DecodeConfig(strings.NewReader(s)); err == nil {
			t.Fatalf("DecodeConfig(%q): expected error", s)
		}
	}

	// Decoding errors are wrapped.
	_, err = DecodeConfig(strings.NewReader("driver = \"gl\"\nwidth = = 1\n"))
	var derr *toml.DecodeError
	require.True(t, errors.As(err, &derr), "DecodeConfig: error does not wrap *toml.DecodeError")
	if row, _ := derr.Position(); row != 2 {
		t.Fatalf("DecodeError.Position: row\nhave %d\nwant 2", row)
	}
	assert.Contains(t, err.Error(), cfgPrefix)

	_, err = DecodeConfig(strings.NewReader("unknown = 1"))
	var serr *toml.StrictMissingError
	assert.True(t, errors.As(err, &serr), "DecodeConfig: error does not wrap *toml.StrictMissingError")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfgl.toml")
	require.NoError(t, os.WriteFile(path, []byte("sizing = \"fullscreen\"\nwidth = 1024\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, FullScreen, cfg.Sizing)
	assert.Equal(t, 1024, cfg.Width)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("LoadConfig: expected error for missing file")
	}
}
