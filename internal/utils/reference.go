package utils

import (
	"crypto/rand"
	"strings"
)

// referenceAlphabet excludes 0/O, 1/I/L and other glyphs easy to
// mistake when the code is read back over the phone.
const referenceAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// referenceLength is the number of random characters after the "R-" prefix.
const referenceLength = 8

// NewBookingReference returns a short human-readable code like
// "R-7KQ2M9XD" that guests quote to find or cancel their reservation.
// Codes are random, not sequential, so one guest cannot guess another's.
func NewBookingReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("R-")
	for _, c := range buf {
		b.WriteByte(referenceAlphabet[int(c)%len(referenceAlphabet)])
	}
	return b.String(), nil
}
