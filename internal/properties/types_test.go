package properties

import (
	"math"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value Value
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "empty string", value: "", want: true},
		{name: "false", value: false, want: true},
		{name: "int zero", value: 0, want: true},
		{name: "int64 zero", value: int64(0), want: true},
		{name: "uint zero", value: uint(0), want: true},
		{name: "float zero", value: 0.0, want: true},
		{name: "float NaN", value: math.NaN(), want: true},
		{name: "string", value: "x", want: false},
		{name: "string zero", value: "0", want: false},
		{name: "true", value: true, want: false},
		{name: "negative", value: -1, want: false},
		{name: "float", value: 0.25, want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmpty(tc.value); got != tc.want {
				t.Fatalf("IsEmpty(%#v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestIsScalar(t *testing.T) {
	t.Parallel()

	for _, v := range []Value{"x", true, 1, int64(2), uint8(3), 1.5, float32(2.5)} {
		if !IsScalar(v) {
			t.Fatalf("expected %#v to be scalar", v)
		}
	}
	for _, v := range []Value{nil, []int{1}, map[string]any{}, struct{}{}, new(int)} {
		if IsScalar(v) {
			t.Fatalf("expected %#v not to be scalar", v)
		}
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	testCases := map[string]Value{
		"":      nil,
		"eu":    "eu",
		"true":  true,
		"false": false,
		"5":     5,
		"-12":   int64(-12),
		"7":     uint16(7),
		"0.5":   0.5,
		"1e+21": 1e21,
	}
	for want, value := range testCases {
		if got := FormatValue(value); got != want {
			t.Fatalf("FormatValue(%#v) = %q, want %q", value, got, want)
		}
	}
}

func TestParseScalar(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw  string
		want Value
	}{
		{raw: "true", want: true},
		{raw: "FALSE", want: false},
		{raw: "42", want: int64(42)},
		{raw: " -3 ", want: int64(-3)},
		{raw: "2.5", want: 2.5},
		{raw: "eu-west-1", want: "eu-west-1"},
		{raw: "", want: ""},
		{raw: "NaN", want: "NaN"},
		{raw: "Inf", want: "Inf"},
		{raw: "007", want: "007"},
		{raw: "+15551234", want: "+15551234"},
		{raw: "12345678901234567890", want: "12345678901234567890"},
		{raw: "-0", want: "-0"},
		{raw: "1.50", want: "1.50"},
		{raw: "1e3", want: "1e3"},
		{raw: "0", want: int64(0)},
	}

	for _, tc := range testCases {
		if got := ParseScalar(tc.raw); got != tc.want {
			t.Fatalf("ParseScalar(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Value{true, int64(17), 3.25, "plain"} {
		if got := ParseScalar(FormatValue(v)); got != v {
			t.Fatalf("round trip of %#v produced %#v", v, got)
		}
	}
}
