package legacytext

// Mode identifies how the legacy client encoded its prompt payload. It is taken
// from the URL-Encoded request header and also decides how the reply is encoded.
type Mode int

const (
	// ModeUnknown passes the payload through untouched.
	ModeUnknown Mode = iota
	// ModeURLEncoded is sent by the 68k build, which percent-encodes the prompt
	// and renders Mac OS Roman only.
	ModeURLEncoded
	// ModeRawLegacyBytes is sent by the PowerPC build, whose UTF-8 prompt reaches
	// us decoded once as Mac OS Roman.
	ModeRawLegacyBytes
)

// ParseMode maps a URL-Encoded header value to a Mode. Only the exact strings
// "true" and "false" are recognized.
func ParseMode(v string) Mode {
	switch v {
	case "true":
		return ModeURLEncoded
	case "false":
		return ModeRawLegacyBytes
	default:
		return ModeUnknown
	}
}

func (m Mode) String() string {
	switch m {
	case ModeURLEncoded:
		return "url-encoded"
	case ModeRawLegacyBytes:
		return "raw-legacy-bytes"
	default:
		return "unknown"
	}
}
