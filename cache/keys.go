package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// schemeVersion tags every cache key so a future fingerprint-format change
// cannot collide with entries written by an older SDK.
const schemeVersion = "v1"

const fingerprintHexLen = 16

// Fingerprint canonically identifies the semantic content of a permission
// check: the set of subjects (order-independent), scope, action, tenant, and
// object. Two checks with the same subjects in any order produce the same
// fingerprint.
type Fingerprint struct {
	subjects []string
	hash     string
}

// NewFingerprint derives the fingerprint for a check request shape.
func NewFingerprint(subjects []string, scope, action, tenantID, objectID string) Fingerprint {
	sorted := append([]string(nil), subjects...)
	sort.Strings(sorted)

	// NUL separators keep adjacent fields from aliasing each other.
	var b strings.Builder
	b.WriteString(strings.Join(sorted, "|"))
	for _, part := range []string{scope, action, tenantID, objectID} {
		b.WriteByte(0)
		b.WriteString(part)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return Fingerprint{
		subjects: sorted,
		hash:     hex.EncodeToString(sum[:])[:fingerprintHexLen],
	}
}

// Hash returns the hex fingerprint digest.
func (f Fingerprint) Hash() string { return f.hash }

// Subjects returns the sorted subject set the fingerprint was built from.
func (f Fingerprint) Subjects() []string { return f.subjects }

// KeyScheme maps fingerprints and subjects to backend keys. Because a check
// can name several subjects and the backend only deletes by a single prefix,
// the scheme stores one physical row per (subject, fingerprint) pair: every
// subject's prefix then covers every entry that subject participated in, at
// the cost of a constant-factor duplication on store.
type KeyScheme struct {
	prefix string
}

// NewKeyScheme creates a scheme under the given namespace prefix.
func NewKeyScheme(prefix string) KeyScheme {
	return KeyScheme{prefix: prefix}
}

// CheckKeys returns one backend key per subject in the fingerprint.
func (s KeyScheme) CheckKeys(fp Fingerprint) []string {
	keys := make([]string, len(fp.subjects))
	for i, subject := range fp.subjects {
		keys[i] = s.SubjectPrefix(subject) + fp.hash
	}
	return keys
}

// SubjectPrefix returns the invalidation-scope prefix for one subject. The
// trailing separator keeps "user:1" from matching "user:12".
func (s KeyScheme) SubjectPrefix(subject string) string {
	return s.prefix + ":" + schemeVersion + ":check:" + subject + ":"
}

// CheckPrefix covers every check entry under this scheme, for full flushes.
func (s KeyScheme) CheckPrefix() string {
	return s.prefix + ":" + schemeVersion + ":check:"
}
