package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertStdinToStdout(t *testing.T) {
	out, err := run(t, `{"z":1,"a":2}`, "-i", "json", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: 2\n", out)
}

func TestFormatsAreCaseInsensitive(t *testing.T) {
	out, err := run(t, `{"a":1}`, "--input", "JSON", "--output", "Yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("CYD_INPUT", "json")
	t.Setenv("CYD_OUTPUT", "toml")
	out, err := run(t, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", out)
}

func TestMissingFormats(t *testing.T) {
	t.Setenv("CYD_INPUT", "")
	t.Setenv("CYD_OUTPUT", "")
	_, err := run(t, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing input format")

	_, err = run(t, `{}`, "-i", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing output format")
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, `{}`, "-i", "xml", "-o", "json")
	require.Error(t, err)
}

func TestNoOutputOnConversionFailure(t *testing.T) {
	out, err := run(t, `{"a": null}`, "-i", "json", "-o", "toml")
	require.Error(t, err)
	assert.Empty(t, out)
}
