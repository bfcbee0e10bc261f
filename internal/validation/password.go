package validation

import (
	"errors"
	"strings"
)

// ValidatePassword enforces the account password policy: at least 6
// characters and the literal word "password" is not allowed anywhere in it,
// regardless of case.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	// bcrypt silently truncates input past 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	if strings.Contains(strings.ToLower(password), "password") {
		return errors.New("password must not contain the word password")
	}

	return nil
}
