// Package identity assigns stable identifiers to job postings and links
// stored records that describe the same underlying posting.
//
// The identity of a posting is the normalized (company_name, role,
// location) tuple. Timestamps are deliberately excluded: a repost of the
// same job days later must hash to the same post_id so it is rejected at
// insert time rather than stored twice.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keySeparator joins tuple fields before hashing. A non-printable
// separator keeps ("ab","c") and ("a","bc") from colliding.
const keySeparator = "\x1f"

// Key is the canonical identity tuple of a job posting.
type Key struct {
	CompanyName string
	Role        string
	Location    string
}

// Normalize canonicalizes a tuple field: trimmed, lowercased, inner
// whitespace collapsed to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NewKey builds a normalized Key from raw field values.
func NewKey(company, role, location string) Key {
	return Key{
		CompanyName: Normalize(company),
		Role:        Normalize(role),
		Location:    Normalize(location),
	}
}

// String returns the joined canonical form used for hashing and grouping.
func (k Key) String() string {
	return k.CompanyName + keySeparator + k.Role + keySeparator + k.Location
}

// PostID derives the deterministic record identifier for the key.
func (k Key) PostID() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}

// PostID is a convenience wrapper over NewKey(...).PostID().
func PostID(company, role, location string) string {
	return NewKey(company, role, location).PostID()
}
