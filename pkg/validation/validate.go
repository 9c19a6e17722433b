package validation

import (
	"net/mail"
	"strings"
	"unicode"
)

// Field limits. These are part of the API contract, not tunables.
const (
	NameMin    = 1
	NameMax    = 50
	HandleMin  = 3
	HandleMax  = 20
	ChannelMax = 20
	MessageMax = 1000
	PassMin    = 6
)

// ValidEmail reports whether s parses as a bare address (no display name,
// no angle brackets).
func ValidEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return a.Address == s
}

// ValidName reports whether a first or last name is within bounds.
func ValidName(s string) bool {
	return len(s) >= NameMin && len(s) <= NameMax
}

// ValidPassword reports whether a password meets the minimum length.
func ValidPassword(s string) bool {
	return len(s) >= PassMin
}

// ValidChannelName reports whether a channel name is within bounds.
func ValidChannelName(s string) bool {
	return len(s) >= 1 && len(s) <= ChannelMax
}

// ValidMessage reports whether a message body is within bounds.
func ValidMessage(s string) bool {
	return len(s) >= 1 && len(s) <= MessageMax
}

// ValidHandle reports whether a handle is 3..20 alphanumeric characters.
func ValidHandle(s string) bool {
	if len(s) < HandleMin || len(s) > HandleMax {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// BaseHandle derives the base handle from a name pair: lowercased
// alphanumerics of first+last, truncated to HandleMax. Collisions are
// resolved by the caller with a numeric suffix that may exceed the cap.
func BaseHandle(first, last string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(first + last) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	h := b.String()
	if len(h) > HandleMax {
		h = h[:HandleMax]
	}
	return h
}
