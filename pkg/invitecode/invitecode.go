// Package invitecode generates the short, human-shareable codes that carry an
// invitation. Codes are meant to be read over the phone or pasted into a
// signup form, so the alphabet is Crockford base32: no 'I', 'L', 'O' or 'U',
// case-insensitive on input.
package invitecode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// Length is the number of characters in a generated code. Eight characters of
// base32 give 40 bits of entropy, which is plenty for codes that are also
// collision-checked against the store at mint time.
const Length = 8

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ErrMalformed reports a code that cannot have been produced by Generate.
var ErrMalformed = errors.New("invitecode: malformed code")

// Generate returns a new random code using a cryptographically secure source.
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("invitecode: read random: %w", err)
	}

	out := make([]byte, Length)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}

// Normalize maps user input to canonical form: trimmed, uppercased, with the
// easily-confused letters folded onto the digits they resemble.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'I', 'L':
			b.WriteRune('1')
		case 'O':
			b.WriteRune('0')
		case '-', ' ':
			// Allow cosmetic separators in pasted codes.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the canonical shape of a code. Callers should Normalize
// first when the code came from user input.
func Validate(s string) error {
	if len(s) != Length {
		return ErrMalformed
	}
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return ErrMalformed
		}
	}
	return nil
}
