package legacytext

import "strings"

const (
	// LineBreakMarker is what the legacy renderer treats as a line break.
	LineBreakMarker = "<br>"
	// ReplacementByte stands in for characters outside Mac OS Roman.
	ReplacementByte byte = '?'
)

// Render turns reply text into the bytes sent back to the legacy client.
// Leading newlines are dropped, the remaining ones become LineBreakMarker, and
// for ModeURLEncoded the result is encoded as Mac OS Roman. replaced counts the
// characters that had to be substituted with ReplacementByte.
func Render(text string, mode Mode) (out []byte, replaced int) {
	text = strings.TrimLeft(text, "\n\r")
	text = strings.ReplaceAll(text, "\n", LineBreakMarker)
	if mode != ModeURLEncoded {
		return []byte(text), 0
	}
	return EncodeMacRoman(text)
}

// EncodeMacRoman encodes s as Mac OS Roman, substituting ReplacementByte for
// every character the encoding cannot represent.
func EncodeMacRoman(s string) ([]byte, int) {
	out := make([]byte, 0, len(s))
	replaced := 0
	for _, r := range s {
		b, ok := macRoman.EncodeRune(r)
		if !ok {
			b = ReplacementByte
			replaced++
		}
		out = append(out, b)
	}
	return out, replaced
}
