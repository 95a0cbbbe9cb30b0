package options

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fluff.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	o, err := Parse("test", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1800, *o.Width)
	assert.Equal(t, 900, *o.Height)
	assert.Equal(t, 512, *o.TextureSize)
	assert.Equal(t, "glsl410", *o.Dialect)
	assert.Equal(t, "assets/utility_shaders/frag_utility.glsl", *o.UtilityPath)
	assert.False(t, *o.Record)
}

func TestConfigFillsUnsetFlags(t *testing.T) {
	path := writeConfig(t, `
shaders = "/srv/fragments"
width = 1024
duration = 2.5
record = true
`)
	o, err := Parse("test", []string{"-config", path, "-width", "640"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "/srv/fragments", *o.ShaderDir)
	assert.Equal(t, 640, *o.Width, "command line wins over config")
	assert.Equal(t, 2.5, *o.Duration)
	assert.True(t, *o.Record)
}

func TestConfigErrors(t *testing.T) {
	_, err := Parse("test", []string{"-config", writeConfig(t, "colour = 3\n")}, io.Discard)
	assert.ErrorContains(t, err, "unknown option")

	_, err = Parse("test", []string{"-config", writeConfig(t, "width = \"wide\"\n")}, io.Discard)
	assert.Error(t, err)

	_, err = Parse("test", []string{"-config", writeConfig(t, "width = [\n")}, io.Discard)
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse("test", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, io.Discard)
	assert.ErrorContains(t, err, "failed to read")
}

func TestBadFlag(t *testing.T) {
	_, err := Parse("test", []string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	for depth, want := range map[string]gpu.TextureFormat{
		"8":  gpu.FormatRGBA8,
		"16": gpu.FormatRGBA16F,
		"32": gpu.FormatRGBA32F,
	} {
		o, err := Parse("test", []string{"-bitdepth", depth}, io.Discard)
		require.NoError(t, err)
		got, err := o.Format()
		require.NoError(t, err)
		assert.Equal(t, want, got, depth)
	}

	o, err := Parse("test", []string{"-bitdepth", "10"}, io.Discard)
	require.NoError(t, err)
	_, err = o.Format()
	assert.Error(t, err)
}
