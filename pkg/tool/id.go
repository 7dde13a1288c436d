package tool

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns n characters drawn from [a-zA-Z0-9].
func RandomCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fall back to uuid entropy
			return uuid.NewString()[:n]
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b)
}
