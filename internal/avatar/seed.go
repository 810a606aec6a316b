package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// Seed is the sole source of "randomness" in trait selection. It is the
// md5 digest of "{identifier}#{variant}"; md5 is not used for security but
// for digest parity with previously cached values, which pins the exact
// hash function.
type Seed struct {
	// Hex is the full 32-character digest, exposed as the public seed field.
	Hex string
	// Int is the first 8 hex digits parsed as an unsigned integer. All
	// arithmetic trait selection derives from this view.
	Int uint32
}

// NewSeed derives the deterministic seed for an identifier (case-preserved,
// e.g. "owner/name") and variant.
func NewSeed(identifier string, variant int) Seed {
	sum := md5.Sum([]byte(identifier + "#" + strconv.Itoa(variant)))
	digest := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseUint(digest[:8], 16, 32)
	return Seed{Hex: digest, Int: uint32(v)}
}
