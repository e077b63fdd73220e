// Package datafmt turns textual instruction data into bytes.
package datafmt

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mr-tron/base58"
)

// Encoding names a textual representation of instruction data.
type Encoding string

const (
	Hex    Encoding = "hex"
	Base58 Encoding = "base58"
	Base64 Encoding = "base64"
)

// Encodings lists the supported encodings.
var Encodings = []Encoding{Hex, Base58, Base64}

// ErrUnknownEncoding is returned for encodings outside Encodings.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ParseEncoding validates an encoding name. The empty string selects Hex.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return Hex, nil
	case Hex, Base58, Base64:
		return e, nil
	default:
		return "", fmt.Errorf("%w %q (supported: hex, base58, base64)", ErrUnknownEncoding, s)
	}
}

// Decode converts s to bytes. Hex input may carry a 0x prefix, and
// whitespace is ignored for every encoding.
func Decode(enc Encoding, s string) ([]byte, error) {
	s = stripSpace(s)
	switch enc {
	case Hex, "":
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return b, nil
	case Base58:
		if s == "" {
			return []byte{}, nil
		}
		b, err := base58.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid base58 data: %w", err)
		}
		return b, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, string(enc))
	}
}

// Encode is the inverse of Decode. Hex output is lower case with no prefix.
func Encode(enc Encoding, b []byte) (string, error) {
	switch enc {
	case Hex, "":
		return hex.EncodeToString(b), nil
	case Base58:
		return base58.Encode(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownEncoding, string(enc))
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
