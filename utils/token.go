package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	accessTokenLength = 40
	tokenCharset      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewAccessToken generates a cryptographically secure opaque token. The
// token is the sole credential gating full-report retrieval, so it must
// never be derived from guessable inputs.
func NewAccessToken() (string, error) {
	result := make([]byte, accessTokenLength)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenCharset))))
		if err != nil {
			return "", err
		}
		result[i] = tokenCharset[num.Int64()]
	}
	return string(result), nil
}
