package domain

import "strings"

// MobilePrefix is the network prefix every subscriber number must carry.
const MobilePrefix = "010"

const phoneLength = 11

// PhoneNumber is a normalized 11-digit mobile number with no separators.
// Construct it through NormalizePhone; raw strings must never be compared
// or stored directly.
type PhoneNumber string

// NormalizePhone strips hyphens and spaces from raw input and validates the
// result: exactly 11 digits starting with the mobile prefix.
func NormalizePhone(raw string) (PhoneNumber, error) {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(raw)

	if len(cleaned) != phoneLength {
		return "", ErrInvalidPhoneNumber
	}
	if !strings.HasPrefix(cleaned, MobilePrefix) {
		return "", ErrInvalidPhoneNumber
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhoneNumber
		}
	}

	return PhoneNumber(cleaned), nil
}

// String returns the normalized digit string.
func (p PhoneNumber) String() string { return string(p) }

// Masked hides the middle four digits: "01012345678" -> "010****5678".
func (p PhoneNumber) Masked() string {
	s := string(p)
	if len(s) != phoneLength {
		return s
	}
	return s[:3] + "****" + s[7:]
}
