package legacytext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// macRoman is the only single-byte encoding the legacy client speaks.
var macRoman = charmap.Macintosh

// EncodingError reports a raw-legacy-bytes prompt that does not survive undoing
// the transport's Mac OS Roman decoding.
type EncodingError struct {
	Offset int
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("legacy prompt decode failed at byte %d: %s", e.Offset, e.Reason)
}

// Normalize converts a raw prompt payload into canonical UTF-8 text according
// to mode. Only ModeRawLegacyBytes can fail.
func Normalize(payload string, mode Mode) (string, error) {
	switch mode {
	case ModeURLEncoded:
		return strings.ReplaceAll(Unquote(payload), "\r", "\n"), nil
	case ModeRawLegacyBytes:
		return undoLegacyDecode(payload)
	default:
		return payload, nil
	}
}

// undoLegacyDecode maps every character back to the Mac OS Roman byte it was
// decoded from, then reads the bytes as the UTF-8 the client originally sent.
func undoLegacyDecode(payload string) (string, error) {
	raw := make([]byte, 0, len(payload))
	for i, r := range payload {
		b, ok := macRoman.EncodeRune(r)
		if !ok {
			return "", &EncodingError{Offset: i, Reason: fmt.Sprintf("character %q has no Mac OS Roman byte", r)}
		}
		raw = append(raw, b)
	}
	if !utf8.Valid(raw) {
		return "", &EncodingError{Offset: firstInvalid(raw), Reason: "bytes are not valid UTF-8"}
	}
	return string(raw), nil
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
