package legacytext

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

func TestRenderStripsLeadingNewlines(t *testing.T) {
	out, replaced := Render("\n\r\nHi there\n", ModeUnknown)
	if string(out) != "Hi there<br>" {
		t.Fatalf("got %q", out)
	}
	if replaced != 0 {
		t.Fatalf("replaced = %d, want 0", replaced)
	}
}

func TestRenderLineBreakMarkers(t *testing.T) {
	out, _ := Render("Line1\nLine2", ModeURLEncoded)
	if string(out) != "Line1<br>Line2" {
		t.Fatalf("got %q, want %q", out, "Line1<br>Line2")
	}
}

func TestRenderKeepsInnerCarriageReturns(t *testing.T) {
	out, _ := Render("a\r\nb", ModeUnknown)
	if string(out) != "a\r<br>b" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderURLEncodedUsesMacRoman(t *testing.T) {
	out, replaced := Render("café 日本", ModeURLEncoded)
	want := []byte{'c', 'a', 'f', 0x8E, ' ', '?', '?'}
	if !bytes.Equal(out, want) {
		t.Fatalf("got % x, want % x", out, want)
	}
	if replaced != 2 {
		t.Fatalf("replaced = %d, want 2", replaced)
	}
}

func TestRenderOtherModesStayUTF8(t *testing.T) {
	for _, mode := range []Mode{ModeRawLegacyBytes, ModeUnknown} {
		out, replaced := Render("café 日本", mode)
		if string(out) != "café 日本" || replaced != 0 {
			t.Errorf("mode %v: got %q (%d replaced)", mode, out, replaced)
		}
	}
}

func TestMacRomanRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		r := macRoman.DecodeByte(byte(i))
		if r == utf8.RuneError {
			continue
		}
		out, replaced := EncodeMacRoman(string(r))
		if replaced != 0 || len(out) != 1 || out[0] != byte(i) {
			t.Fatalf("byte 0x%02X -> %U -> % x (replaced %d)", i, r, out, replaced)
		}
	}
}

func TestEncodeMacRomanSubstitutesOutsideRepertoire(t *testing.T) {
	for _, s := range []string{"日", "😀", "ж", "☃"} {
		out, replaced := EncodeMacRoman(s)
		if !bytes.Equal(out, []byte{ReplacementByte}) || replaced != 1 {
			t.Errorf("EncodeMacRoman(%q) = % x (%d replaced)", s, out, replaced)
		}
	}
}
