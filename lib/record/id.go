package record

import (
	"strings"

	"github.com/google/uuid"
)

// IDLength is the number of characters of a generated id.
const IDLength = 8

// NormalizeID folds an id to the form used for identity comparison.
// Only the case is folded, surrounding whitespace is significant.
func NormalizeID(id string) string {
	return strings.ToUpper(id)
}

// SameID reports whether two ids denote the same record.
func SameID(a, b string) bool {
	return NormalizeID(a) == NormalizeID(b)
}

// Same reports whether two records are the same entity.
func Same(a, b Record) bool {
	if a == nil || b == nil {
		return false
	}
	return SameID(a.ID(), b.ID())
}

// NewID generates a short upper-case id from a random UUID.
// Short ids can collide; callers holding a store must retry on a duplicate.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(u.String()[:IDLength]), nil
}
