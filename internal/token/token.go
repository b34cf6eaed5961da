package token

import (
	"crypto/rand"
	"fmt"
)

// tokenAlphabet is the character set for approval tokens. Alphanumeric only,
// so tokens are safe in URLs and email clients without escaping.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of characters in a generated approval token.
// 32 characters over a 62-symbol alphabet gives just over 190 bits of
// entropy, comfortably above the 128-bit floor required for a
// security-bearing capability.
const Length = 32

// Generate produces a new approval token from the OS cryptographic random
// source. The token is the sole credential authorizing approval of a review,
// so it must not be derivable from the review id, timestamp, or any other
// field.
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	// Map each byte onto the alphabet. 256 is not a multiple of 62, so the
	// distribution is very slightly biased toward the first characters; the
	// bias costs well under one bit of entropy across the whole token and is
	// irrelevant at this length.
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(buf), nil
}
