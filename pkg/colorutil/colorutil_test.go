package colorutil

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#00ff00", color.RGBA{0, 255, 0, 255}},
		{"#00ff0033", color.RGBA{0, 255, 0, 0x33}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"112233", color.RGBA{0x11, 0x22, 0x33, 255}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) expected error", in)
		}
	}
}

func TestParseHexDefault(t *testing.T) {
	if got := ParseHexDefault("bogus", Green); got != Green {
		t.Errorf("fallback = %v, want %v", got, Green)
	}
}

func TestFormatHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{0, 255, 0, 255}, {1, 2, 3, 0x33}} {
		back, err := ParseHex(FormatHex(c))
		if err != nil {
			t.Fatalf("round trip error: %v", err)
		}
		if back != c {
			t.Errorf("round trip %v -> %s -> %v", c, FormatHex(c), back)
		}
	}
}
