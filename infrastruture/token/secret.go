package token

import (
	"errors"

	"github.com/nbutton23/zxcvbn-go"
)

const minSecretStrengthScore = 3

var ErrWeakSecret = errors.New("jwt secret is too weak")

// ValidateSecret rejects signing secrets that are easy to guess.
func ValidateSecret(secret string) error {
	result := zxcvbn.PasswordStrength(secret, nil)
	if result.Score < minSecretStrengthScore {
		return ErrWeakSecret
	}
	return nil
}
