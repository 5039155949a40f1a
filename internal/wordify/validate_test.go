package wordify

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"
	"time"
)

func TestValidate_integers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"int zero", 0, "0"},
		{"int", 12345, "12345"},
		{"negative int", -654987, "-654987"},
		{"int8", int8(-8), "-8"},
		{"int16", int16(300), "300"},
		{"int32", int32(70000), "70000"},
		{"int64", int64(math.MaxInt64), "9223372036854775807"},
		{"uint", uint(5), "5"},
		{"uint8", uint8(255), "255"},
		{"uint16", uint16(65535), "65535"},
		{"uint32", uint32(4000000000), "4000000000"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"string", "12345", "12345"},
		{"signed string", "+42", "42"},
		{"negative string", "-42", "-42"},
		{"padded string", "  77\n", "77"},
		{"leading zeros", "007", "7"},
		{"underscores", "1_000_000", "1000000"},
		{"float", 100.0, "100"},
		{"negative float", -3.0, "-3"},
		{"float32", float32(16), "16"},
		{"json integer", json.Number("87334"), "87334"},
		{"json exponent", json.Number("1e35"), "100000000000000000000000000000000000"},
		{"json whole decimal", json.Number("10.0"), "10"},
		{"max", "999999999999999999999999999999999999", "999999999999999999999999999999999999"},
		{"min", "-999999999999999999999999999999999999", "-999999999999999999999999999999999999"},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Validate(tt.input)
			if err != nil {
				t.Fatalf("Validate(%#v): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Validate(%#v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidate_bigIntIsCopied(t *testing.T) {
	t.Parallel()

	in := big.NewInt(5)
	got, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	got.SetInt64(6)
	if in.Int64() != 5 {
		t.Errorf("input changed to %d", in.Int64())
	}
}

func TestValidate_fractionsNotAllowed(t *testing.T) {
	t.Parallel()

	for _, v := range []any{10.5, -10.5, float32(0.25), math.NaN(), math.Inf(1), math.Inf(-1), json.Number("10.5"), "10.0", "1e3"} {
		if _, err := Validate(v); !errors.Is(err, ErrType) {
			t.Errorf("Validate(%v): got %v, want %v", v, err, ErrType)
		}
	}
}

func TestValidate_large(t *testing.T) {
	t.Parallel()

	limit := pow10(36)
	one := big.NewInt(1)
	for _, v := range []*big.Int{new(big.Int).Sub(limit, one), new(big.Int).Add(new(big.Int).Neg(limit), one)} {
		if _, err := Validate(v); err != nil {
			t.Errorf("Validate(%s): %v", v, err)
		}
	}

	for _, v := range []any{limit, new(big.Int).Neg(limit), limit.String(), 1e36, -1e40, json.Number("1e36"), json.Number("1e400")} {
		if _, err := Validate(v); !errors.Is(err, ErrRange) {
			t.Errorf("Validate(%v): got %v, want %v", v, err, ErrRange)
		}
	}
}

func TestValidate_wrongType(t *testing.T) {
	t.Parallel()

	var nilBig *big.Int
	inputs := []any{
		"string",
		"",
		"-",
		"+",
		"12a",
		"1__000",
		"_1000",
		"1000_",
		"#65678",
		"23 456,9",
		"0x1F",
		time.Now(),
		[]int{},
		map[string]int{},
		struct{}{},
		true,
		nil,
		nilBig,
		json.Number("abc"),
	}

	for _, v := range inputs {
		if _, err := Validate(v); !errors.Is(err, ErrType) {
			t.Errorf("Validate(%#v): got %v, want %v", v, err, ErrType)
		}
	}
}
