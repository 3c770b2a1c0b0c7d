package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyEmail indicates the contact email is missing
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail indicates the contact email is malformed
	ErrInvalidEmail = errors.New("email format is invalid")

	// ErrEmptyPhone indicates the contact phone is missing
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhone indicates the contact phone is not exactly 10 digits
	ErrInvalidPhone = errors.New("phone number must be exactly 10 digits")

	// ErrEmptyName indicates a passenger name is missing
	ErrEmptyName = errors.New("passenger name cannot be empty")

	// ErrInvalidName indicates a passenger name is outside 2-50 letters/spaces
	ErrInvalidName = errors.New("passenger name must be 2-50 letters and spaces")

	// ErrEmptyIdentityCard indicates a passenger identity card is missing
	ErrEmptyIdentityCard = errors.New("identity card cannot be empty")

	// ErrInvalidIdentityCard indicates an identity card is not 9-12 digits
	ErrInvalidIdentityCard = errors.New("identity card must be 9-12 digits")
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	cardRegex  = regexp.MustCompile(`^\d{9,12}$`)

	// nameRegex accepts letters and spaces, including the precomposed
	// Vietnamese range (U+00C0..U+1EF9).
	nameRegex = regexp.MustCompile(`^[a-zA-ZÀ-ỹ ]+$`)
)

// ContactValidator validates checkout contact and passenger fields.
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// ValidateEmail validates a contact email address.
func (v *ContactValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePhone validates a contact phone number. Common separators are
// stripped before the digit check, so "090 123 4567" passes.
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}
	sanitized := v.SanitizePhone(phone)
	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidPhone
	}
	return sanitized, nil
}

// SanitizePhone removes spaces, dashes, dots and parentheses from a phone
// number.
func (v *ContactValidator) SanitizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ValidateName validates a passenger name: 2-50 characters, letters and
// spaces only, Vietnamese letters included.
func (v *ContactValidator) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	length := utf8.RuneCountInString(name)
	if length < 2 || length > 50 {
		return ErrInvalidName
	}
	if !nameRegex.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// ValidateIdentityCard validates a passenger identity card number
// (9-12 digits).
func (v *ContactValidator) ValidateIdentityCard(card string) error {
	card = strings.TrimSpace(card)
	if card == "" {
		return ErrEmptyIdentityCard
	}
	if !cardRegex.MatchString(card) {
		return ErrInvalidIdentityCard
	}
	return nil
}
