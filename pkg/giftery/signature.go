package giftery

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex SHA-256 digest of cmd, data and secret concatenated
// without separators. The remote service verifies exactly this byte
// sequence, so the parts must not be delimited or escaped.
func Sign(cmd Command, data, secret string) string {
	sum := sha256.Sum256([]byte(string(cmd) + data + secret))
	return hex.EncodeToString(sum[:])
}
