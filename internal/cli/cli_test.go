package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, exit, err := Parse([]string{"soc.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		require.Equal(t, []string{"soc.hcl"}, cfg.Paths)
		require.Equal(t, "yaml", cfg.Format)
		require.Equal(t, "text", cfg.LogFormat)
		require.Equal(t, "info", cfg.LogLevel)
		require.False(t, cfg.ListFiles)
		require.Empty(t, cfg.Params)
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		cfg, exit, err := Parse([]string{
			"-top", "soc", "-o", "out.json", "-format", "JSON",
			"-list-files", "-outdir", "gen",
			"-param", "BASE=hex(\"1000\")", "-param", "N = 4",
			"-log-level", "debug", "-log-format", "json",
			"lib", "soc.hcl",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		require.Equal(t, []string{"lib", "soc.hcl"}, cfg.Paths)
		require.Equal(t, "soc", cfg.Top)
		require.Equal(t, "out.json", cfg.OutputPath)
		require.Equal(t, "json", cfg.Format)
		require.True(t, cfg.ListFiles)
		require.Equal(t, "gen", cfg.OutDir)
		require.Equal(t, map[string]string{"BASE": `hex("1000")`, "N": " 4"}, cfg.Params)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		cfg, exit, err := Parse([]string{"-h"}, out)
		require.NoError(t, err)
		require.True(t, exit)
		require.Nil(t, cfg)
		require.Contains(t, out.String(), "Usage:")
	})

	t.Run("no paths prints usage", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		_, exit, err := Parse(nil, out)
		require.NoError(t, err)
		require.True(t, exit)
		require.Contains(t, out.String(), "socgen [options] PATH...")
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"-frobnicate", "x"}, wantMsg: "flag provided but not defined"},
		{name: "bad param", args: []string{"-param", "=1", "x"}, wantMsg: "expected NAME=EXPR"},
		{name: "bad format", args: []string{"-format", "toml", "x"}, wantMsg: "Format must be one of"},
		{name: "bad log level", args: []string{"-log-level", "loud", "x"}, wantMsg: "LogLevel must be one of"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
