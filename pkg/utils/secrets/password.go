// Package secrets generates credential material for directory write
// operations.
package secrets

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var ErrRandomSource = errors.New("failed to read from random source")

const (
	passwordLength  = 16
	passwordCharset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%&*"
)

// TemporaryPassword returns a random one-time password suitable for the
// passwordProfile of a newly created directory user. The user is forced to
// change it on first sign-in.
func TemporaryPassword() (string, error) {
	charsetSize := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, passwordLength)

	for i := range out {
		n, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", ErrRandomSource
		}

		out[i] = passwordCharset[n.Int64()]
	}

	return string(out), nil
}
