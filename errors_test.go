package cyd_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/cyd"
)

func TestDecodeErrorMessage(t *testing.T) {
	t.Parallel()
	withLine := &cyd.DecodeError{Format: cyd.TOML, Line: 3, Column: 7, Offset: -1, Message: "boom"}
	assert.Equal(t, "decode toml: line 3, column 7: boom", withLine.Error())

	withOffset := &cyd.DecodeError{Format: cyd.JSON, Offset: 12, Message: "boom"}
	assert.Equal(t, "decode json: offset 12: boom", withOffset.Error())

	bare := &cyd.DecodeError{Format: cyd.YAML, Offset: -1, Message: "boom"}
	assert.Equal(t, "decode yaml: boom", bare.Error())
}

func TestEncodeErrorMessage(t *testing.T) {
	t.Parallel()
	_, err := cyd.Convert([]byte(`{"a": null}`), cyd.JSON, cyd.TOML)
	require.Error(t, err)
	assert.Equal(t, "encode toml: unsupported value at $.a: Null", err.Error())

	_, err = cyd.Convert([]byte(`42`), cyd.JSON, cyd.TOML)
	require.Error(t, err)
	assert.Equal(t, "encode toml: unsupported root value: document root is Integer", err.Error())

	v := cyd.MappingValue(cyd.Member{Key: "x", Value: cyd.FloatValue(math.NaN())})
	_, err = cyd.Encode(v, cyd.JSON)
	require.Error(t, err)
	assert.Equal(t, "encode json: unsupported value at $.x: Float: non-finite number", err.Error())
}

func TestPhaseString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "decode", cyd.PhaseDecode.String())
	assert.Equal(t, "encode", cyd.PhaseEncode.String())
	assert.Equal(t, "<unknown phase>", cyd.Phase(9).String())
}

func TestConversionErrorPassesThrough(t *testing.T) {
	t.Parallel()
	_, err := cyd.Convert([]byte(`{`), cyd.JSON, cyd.YAML)
	var ce *cyd.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cyd.PhaseDecode, ce.Phase)
	assert.Equal(t, ce.Err.Error(), ce.Error())
}
