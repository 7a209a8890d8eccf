package util

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Session codes are short tokens students write down or read over the
// phone, so the alphabet drops characters that are easy to confuse
// (I, L, O, U, 0, 1). 8 characters over 30 symbols is ~39 bits, enough to
// make guessing impractical at the rate limiter's pace.
const (
	sessionCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"
	sessionCodeLength   = 8
)

// GenerateSessionCode returns a fresh random resume code.
func GenerateSessionCode() (string, error) {
	buf := make([]byte, sessionCodeLength)
	max := big.NewInt(int64(len(sessionCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = sessionCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateSeed returns a random int64 used to fix a session's bank
// sampling order.
func GenerateSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:]) >> 1), nil
}
