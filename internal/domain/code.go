package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// codeAlphabet deliberately excludes 0/O and 1/I so codes stay legible when
// shared verbally or in print.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// CodeLength is the fixed length of every itinerary unique code.
const CodeLength = 10

// maxCodeAttempts bounds the collision-retry loop. With a 32-character
// alphabet at length 10 the space is ~10^15 codes, so hitting the bound
// indicates a broken existence check rather than genuine exhaustion.
const maxCodeAttempts = 10

// ErrCodeExhausted is returned when every candidate code collided within the
// retry bound.
var ErrCodeExhausted = errors.New("unique code generation exhausted retry bound")

// GenerateUniqueCode produces a fresh public code, retrying on collision as
// reported by exists. Once a code is assigned to an itinerary it is immutable.
func GenerateUniqueCode(exists func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func randomCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
