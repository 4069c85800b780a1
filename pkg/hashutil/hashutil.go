package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// FingerprintLength is the number of hex characters kept by Fingerprint.
const FingerprintLength = 12

// Fingerprint returns a short, stable BLAKE3 identifier for a string.
// Cache keys may embed an API credential, so they are logged and listed
// by fingerprint instead of verbatim.
func Fingerprint(s string) string {
	return hashBytesBlake3([]byte(s))[:FingerprintLength]
}

func hashBytesBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
