package rendering

import (
	"strings"
	"unicode"
)

// Initials returns the avatar initials for a name: the first letters of the first and
// last words, upper-cased. A single-word name yields one letter.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstLetter(parts[0]))
	default:
		return strings.ToUpper(firstLetter(parts[0]) + firstLetter(parts[len(parts)-1]))
	}
}

func firstLetter(word string) string {
	for _, r := range word {
		return string(r)
	}
	return ""
}

// PhoneDigits strips everything but digits from a phone number for use in a tel: link.
func PhoneDigits(phone string) string {
	if phone == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(phone))

	for _, r := range phone {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
