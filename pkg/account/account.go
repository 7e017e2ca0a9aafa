/*
Package account provides NEAR account identifier handling.

Account identifiers follow the NEAR naming rules: 2 to 64 characters,
lowercase alphanumeric parts separated by dots, with dashes and
underscores allowed inside a part but not at its edges.
*/
package account

import (
	"errors"
	"fmt"
	"strings"
)

// MinLength and MaxLength bound the size of a valid account identifier.
const (
	MinLength = 2
	MaxLength = 64
)

// ID is a NEAR account identifier like "alice.testnet" or
// "dev-1640000000000-12345678".
type ID string

// ErrInvalidID is returned when a string does not follow the NEAR
// account naming rules.
var ErrInvalidID = errors.New("invalid account ID")

// ParseID checks s against the NEAR account naming rules and returns
// it as an ID.
func ParseID(s string) (ID, error) {
	if len(s) < MinLength || len(s) > MaxLength {
		return "", fmt.Errorf("%w: %q must be %d to %d characters", ErrInvalidID, s, MinLength, MaxLength)
	}
	for _, part := range strings.Split(s, ".") {
		if !validPart(part) {
			return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
	}
	return ID(s), nil
}

// validPart checks one dot-separated component: non-empty, lowercase
// alphanumeric with single inner dashes or underscores.
func validPart(part string) bool {
	if len(part) == 0 {
		return false
	}
	prevSep := true // separator can't open a part
	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			prevSep = false
		case c == '-' || c == '_':
			if prevSep {
				return false
			}
			prevSep = true
		default:
			return false
		}
	}
	return !prevSep // separator can't close a part either
}

func (id ID) String() string {
	return string(id)
}

// IsSubAccountOf reports whether id is a direct or indirect sub-account
// of parent, e.g. "owner.dev-123" is a sub-account of "dev-123".
func (id ID) IsSubAccountOf(parent ID) bool {
	return strings.HasSuffix(string(id), "."+string(parent)) && len(id) > len(parent)+1
}

// SubAccount derives the "<label>.<parent>" account. The result must
// itself be a valid account identifier.
func SubAccount(parent ID, label string) (ID, error) {
	return ParseID(label + "." + string(parent))
}
