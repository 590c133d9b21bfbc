package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		weak   bool
	}{
		{"Empty", "", true},
		{"Dictionary word", "password", true},
		{"Short digits", "123456", true},
		{"Random", newSecret(t), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			if tt.weak {
				assert.ErrorIs(t, err, ErrWeakSecret)
				return
			}
			assert.NoError(t, err)
		})
	}
}
