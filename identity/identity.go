package identity

import (
	"crypto/sha256"
	"regexp"

	"github.com/google/uuid"
)

var canonicalUUID = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsCanonicalUUID reports whether id is in canonical 8-4-4-4-12 form.
func IsCanonicalUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	return canonicalUUID.MatchString(toLower(id))
}

// EnsureUUID maps an arbitrary caller-supplied identifier to a UUID key.
// Canonical UUID strings pass through unchanged; anything else is derived
// deterministically from a SHA-256 hash, with the version and variant bits
// set per RFC 4122, so the same input always yields the same UUID.
func EnsureUUID(id string) uuid.UUID {
	if IsCanonicalUUID(id) {
		return uuid.MustParse(id)
	}

	sum := sha256.Sum256([]byte(id))
	var out uuid.UUID
	copy(out[:], sum[:16])
	out[6] = (out[6] & 0x0f) | 0x40
	out[8] = (out[8] & 0x3f) | 0x80
	return out
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
