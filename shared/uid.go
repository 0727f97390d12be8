package shared

import (
	"crypto/rand"
	"math/big"
)

const (
	uidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	uidLength   = 12
)

// NewPublicID returns a random 12-character alphanumeric identifier used as
// the externally visible ID for boards, lists, cards and labels.
func NewPublicID() string {
	max := big.NewInt(int64(len(uidAlphabet)))
	b := make([]byte, uidLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = uidAlphabet[n.Int64()]
	}
	return string(b)
}
