package analyzer

import (
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/replaylint/determinism"
)

var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Fingerprint computes the stable identity of a violation: the same rule at
// the same span of the same unit hashes identically across runs
func Fingerprint(ruleID string, location determinism.CodeLocation) uint64 {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0
	}
	_, _ = fmt.Fprintf(hash, "%s|%s|%d|%d", ruleID, location.FilePath, location.Offset, location.EndOffset)
	return hash.Sum64()
}
