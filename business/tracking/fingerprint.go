package tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// uniqueWindow is the rolling window inside which a repeated (offer,
// fingerprint) pair marks a click as non-unique.
const uniqueWindow = 24 * time.Hour

// Fingerprint derives the stable identity tag from the resolved IP and the
// raw user-agent. The "::" join is order-sensitive on purpose: swapping the
// inputs must produce a different tag.
func Fingerprint(ip, ua string) string {
	sum := sha256.Sum256([]byte(ip + "::" + ua))
	return hex.EncodeToString(sum[:])
}
