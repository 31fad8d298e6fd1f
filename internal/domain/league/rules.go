package league

import (
	"errors"
	"fmt"
)

const (
	NameMinLen    = 4
	NameMaxLen    = 24
	ForfeitMinLen = 4
	ForfeitMaxLen = 128
)

var (
	ErrNameLength     = errors.New("name length out of bounds")
	ErrNameCharset    = errors.New("name contains disallowed characters")
	ErrForfeitLength  = errors.New("forfeit length out of bounds")
	ErrForfeitCharset = errors.New("forfeit contains disallowed characters")
)

// ValidateName checks a league or team display name: 4 to 24 characters
// from letters, digits, underscore, apostrophe and space.
func ValidateName(name string) error {
	if len(name) < NameMinLen || len(name) > NameMaxLen {
		return fmt.Errorf("%w: expected %d-%d characters, got %d", ErrNameLength, NameMinLen, NameMaxLen, len(name))
	}
	if !allowedText(name) {
		return ErrNameCharset
	}

	return nil
}

// ValidateForfeit checks the league forfeit clause: 4 to 128 characters
// from the same charset as names.
func ValidateForfeit(text string) error {
	if len(text) < ForfeitMinLen || len(text) > ForfeitMaxLen {
		return fmt.Errorf("%w: expected %d-%d characters, got %d", ErrForfeitLength, ForfeitMinLen, ForfeitMaxLen, len(text))
	}
	if !allowedText(text) {
		return ErrForfeitCharset
	}

	return nil
}

func allowedText(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '\'' || r == ' ':
		default:
			return false
		}
	}

	return true
}
