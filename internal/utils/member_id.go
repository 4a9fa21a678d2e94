package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

const (
	memberIDPrefix = "AK-"
	// maxMemberIDAttempts bounds how many digits get appended before giving up.
	maxMemberIDAttempts = 12
)

var ErrMemberIDExhausted = errors.New("could not allocate a unique member id")

// MemberIDExists reports whether a candidate member id is already taken.
type MemberIDExists func(candidate string) (bool, error)

// GenerateMemberID builds an id of the form AK-{YY}{digit}. While the
// candidate is taken, one more random digit is appended.
func GenerateMemberID(now time.Time, exists MemberIDExists) (string, error) {
	candidate := fmt.Sprintf("%s%02d", memberIDPrefix, now.Year()%100)

	for attempt := 0; attempt < maxMemberIDAttempts; attempt++ {
		digit, err := randomDigit()
		if err != nil {
			return "", err
		}
		candidate += digit

		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrMemberIDExhausted
}

func randomDigit() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return "", err
	}
	return n.String(), nil
}
