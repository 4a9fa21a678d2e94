package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	digits  = "23456789"

	// TemporaryPasswordLength is the size of passwords issued to new kasir accounts.
	TemporaryPasswordLength = 10
)

// GenerateTemporaryPassword returns a random password that always contains
// at least one letter and one digit, so it passes the login rules.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, TemporaryPasswordLength)

	first, err := pick(letters)
	if err != nil {
		return "", err
	}
	second, err := pick(digits)
	if err != nil {
		return "", err
	}
	buf[0], buf[1] = first, second

	alphabet := letters + digits
	for i := 2; i < len(buf); i++ {
		if buf[i], err = pick(alphabet); err != nil {
			return "", err
		}
	}

	// Shuffle so the letter/digit positions are not predictable.
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := j.Int64()
		buf[i], buf[k] = buf[k], buf[i]
	}

	return string(buf), nil
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
