package cyd_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/cyd"
)

func TestKindString(t *testing.T) {
	t.Parallel()
	want := map[cyd.Kind]string{
		cyd.KindNull:     "Null",
		cyd.KindBool:     "Bool",
		cyd.KindInteger:  "Integer",
		cyd.KindFloat:    "Float",
		cyd.KindString:   "String",
		cyd.KindDatetime: "Datetime",
		cyd.KindSequence: "Sequence",
		cyd.KindMapping:  "Mapping",
	}
	for _, k := range cyd.Kinds() {
		assert.Equal(t, want[k], k.String())
	}
	assert.Equal(t, "<unknown kind>", cyd.Kind(99).String())
}

func TestValueEqual(t *testing.T) {
	t.Parallel()
	ts := cyd.Timestamp{Time: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	cases := []struct {
		name string
		a, b *cyd.Value
		want bool
	}{
		{"nulls", cyd.NullValue(), cyd.NullValue(), true},
		{"bools", cyd.BoolValue(true), cyd.BoolValue(true), true},
		{"bool mismatch", cyd.BoolValue(true), cyd.BoolValue(false), false},
		{"kind mismatch", cyd.IntegerValue(1), cyd.FloatValue(1), false},
		{"integers", cyd.IntegerValue(42), cyd.IntegerValue(42), true},
		{"floats", cyd.FloatValue(1.5), cyd.FloatValue(1.5), true},
		{"nan floats", cyd.FloatValue(math.NaN()), cyd.FloatValue(math.NaN()), true},
		{"strings", cyd.StringValue("a"), cyd.StringValue("a"), true},
		{"datetimes", cyd.DatetimeValue(ts), cyd.DatetimeValue(ts), true},
		{
			"datetime layout mismatch",
			cyd.DatetimeValue(ts),
			cyd.DatetimeValue(cyd.Timestamp{Time: ts.Time, Layout: cyd.LocalDateTime}),
			false,
		},
		{
			"sequences",
			cyd.SequenceValue(cyd.IntegerValue(1), cyd.StringValue("x")),
			cyd.SequenceValue(cyd.IntegerValue(1), cyd.StringValue("x")),
			true,
		},
		{
			"sequence length mismatch",
			cyd.SequenceValue(cyd.IntegerValue(1)),
			cyd.SequenceValue(),
			false,
		},
		{
			"mappings",
			cyd.MappingValue(cyd.Member{Key: "a", Value: cyd.IntegerValue(1)}),
			cyd.MappingValue(cyd.Member{Key: "a", Value: cyd.IntegerValue(1)}),
			true,
		},
		{
			"mapping order matters",
			cyd.MappingValue(
				cyd.Member{Key: "a", Value: cyd.IntegerValue(1)},
				cyd.Member{Key: "b", Value: cyd.IntegerValue(2)},
			),
			cyd.MappingValue(
				cyd.Member{Key: "b", Value: cyd.IntegerValue(2)},
				cyd.Member{Key: "a", Value: cyd.IntegerValue(1)},
			),
			false,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a))
		})
	}
}

func TestValueEqualNil(t *testing.T) {
	t.Parallel()
	var nilVal *cyd.Value
	assert.True(t, nilVal.Equal(nil))
	assert.False(t, nilVal.Equal(cyd.NullValue()))
	assert.False(t, cyd.NullValue().Equal(nil))
}

func TestValueGet(t *testing.T) {
	t.Parallel()
	m := cyd.MappingValue(
		cyd.Member{Key: "a", Value: cyd.IntegerValue(1)},
		cyd.Member{Key: "b", Value: cyd.StringValue("x")},
	)
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.True(t, v.Equal(cyd.StringValue("x")))

	_, ok = m.Get("missing")
	assert.False(t, ok)

	_, ok = cyd.IntegerValue(1).Get("a")
	assert.False(t, ok)
}

func TestTimestampString(t *testing.T) {
	t.Parallel()
	at := time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)
	cases := []struct {
		layout cyd.TimeLayout
		want   string
	}{
		{cyd.OffsetDateTime, "1979-05-27T07:32:00Z"},
		{cyd.LocalDateTime, "1979-05-27T07:32:00"},
		{cyd.LocalDate, "1979-05-27"},
		{cyd.LocalTime, "07:32:00"},
	}
	for _, tc := range cases {
		tc := tc
		ts := cyd.Timestamp{Time: at, Layout: tc.layout}
		assert.Equal(t, tc.want, ts.String())
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for _, f := range cyd.Formats() {
		got, err := cyd.ParseFormat(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := cyd.ParseFormat("JSON")
	assert.NoError(t, err)
	assert.Equal(t, cyd.JSON, got)

	_, err = cyd.ParseFormat("xml")
	assert.ErrorIs(t, err, cyd.ErrUnsupportedFormat)
}

func TestPathString(t *testing.T) {
	t.Parallel()
	// Paths surface through encode errors; exercise rendering there.
	v := cyd.MappingValue(
		cyd.Member{Key: "outer", Value: cyd.SequenceValue(
			cyd.MappingValue(cyd.Member{Key: "odd key", Value: cyd.NullValue()}),
		)},
	)
	_, err := cyd.Encode(v, cyd.TOML)
	var ee *cyd.EncodeError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, "$.outer[0].'odd key'", ee.Path.String())
}
