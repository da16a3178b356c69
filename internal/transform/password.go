package transform

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// PasswordAlphabet is the character set of generated passwords.
const PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%"

// PasswordLength is the length of generated passwords.
const PasswordLength = 16

// GeneratePassword returns a random password drawn uniformly from
// PasswordAlphabet using crypto/rand.
func GeneratePassword() (string, error) {
	return generatePassword(rand.Reader)
}

func generatePassword(src io.Reader) (string, error) {
	n := big.NewInt(int64(len(PasswordAlphabet)))
	buf := make([]byte, PasswordLength)
	for i := range buf {
		idx, err := rand.Int(src, n)
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}
		buf[i] = PasswordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
