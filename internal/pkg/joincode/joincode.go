// Package joincode generates the short codes teams hand out for new members.
package joincode

import (
	"crypto/rand"
	"fmt"
)

const (
	// Length of every generated join code.
	Length = 8

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// New returns a Length-character code drawn uniformly from the alphabet.
// Rejection sampling keeps the distribution uniform: bytes at or above the
// largest multiple of len(alphabet) are discarded.
func New() (string, error) {
	const limit = byte(256 - 256%len(alphabet))

	code := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(code) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("rand.Read -> %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == Length {
				break
			}
		}
	}

	return string(code), nil
}
