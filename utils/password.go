package utils

import (
	"errors"
	"strings"
	"unicode"
)

// Short list of passwords we refuse outright. The full blocklist lives in
// the signup frontend; this is the server-side backstop.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"iloveyou":    {},
	"admin123":    {},
	"letmein":     {},
	"welcome1":    {},
}

var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordNumeric   = errors.New("password cannot be entirely numeric")
	ErrPasswordTooCommon = errors.New("password is too common")
)

// ValidatePasswordStrength enforces the platform password policy:
// minimum length, not all digits, not on the common-password list.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return ErrPasswordNumeric
	}

	if _, found := commonPasswords[strings.ToLower(password)]; found {
		return ErrPasswordTooCommon
	}

	return nil
}
