package whatsapp

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("phone number has no digits")

// PhoneFormat turns local numbers into international WhatsApp ids.
type PhoneFormat struct {
	CountryCode string
	// LocalLength is the digit count of a local number written without its trunk 0.
	LocalLength int
}

// Normalize strips everything but digits and prefixes the country code when
// the number is written locally.
func (f PhoneFormat) Normalize(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrInvalidPhone
	}

	if !strings.HasPrefix(digits, f.CountryCode) {
		switch {
		case strings.HasPrefix(digits, "0"):
			digits = f.CountryCode + digits[1:]
		case len(digits) == f.LocalLength:
			digits = f.CountryCode + digits
		}
	}
	return digits, nil
}

func ChatID(digits string) string {
	return digits + "@c.us"
}
