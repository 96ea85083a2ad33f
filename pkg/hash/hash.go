package hash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// MD5Hex returns the hex-encoded MD5 digest of the input string.
// It is a content hash for id generation, not a security primitive.
func MD5Hex(input string) string {
	h := md5.Sum([]byte(input))
	return hex.EncodeToString(h[:])
}

// ShortHex returns the first prefixLen characters of MD5Hex(input).
func ShortHex(input string, prefixLen int) string {
	full := MD5Hex(input)
	if prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// LogToken returns a short irreversible token for correlating PII in logs.
func LogToken(input string) string {
	return SHA256Hex(input)[:12]
}
