package form

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field names as they appear in the submitted form.
const (
	FirstName = "firstName"
	LastName  = "lastName"
	Email     = "email"
	Phone     = "phone"
	Photo     = "photo"
)

const MsgRequired = "This field is required"

// Whitespace classes include Unicode spaces, not just ASCII ones.
var (
	emailRe = regexp.MustCompile(`^[^\p{Z}\s\x{FEFF}@]+@[^\p{Z}\s\x{FEFF}@]+\.[^\p{Z}\s\x{FEFF}@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\p{Z}\s\x{FEFF}\-\+\(\)]+$`)
)

// Rule pairs a field with the check its trimmed, non-empty value must pass.
type Rule struct {
	Field   string
	Check   func(value string) bool
	Message string
}

func isValidEmail(v string) bool {
	return emailRe.MatchString(v)
}

// Lengths count characters, not bytes.
func isValidPhone(v string) bool {
	return phoneRe.MatchString(v) && utf8.RuneCountInString(v) >= 10
}

func isValidName(v string) bool {
	return utf8.RuneCountInString(v) >= 2
}

// DefaultRules covers the required certificate fields, in display order.
func DefaultRules() []Rule {
	const nameMsg = "Name must be at least 2 characters long"
	return []Rule{
		{Field: FirstName, Check: isValidName, Message: nameMsg},
		{Field: LastName, Check: isValidName, Message: nameMsg},
		{Field: Email, Check: isValidEmail, Message: "Please enter a valid email address"},
		{Field: Phone, Check: isValidPhone, Message: "Please enter a valid phone number"},
	}
}

func normalize(v string) string {
	return strings.TrimSpace(v)
}
