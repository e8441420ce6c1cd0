package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"bril/internal/verify"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

// cacheKey: H(schema || options || content). A verdict depends on the
// snapshot bytes and on the options that shape the bag.
func cacheKey(content []byte, opts verify.Options) Digest {
	h := sha256.New()
	var hdr [2 + 8 + 1]byte
	binary.LittleEndian.PutUint16(hdr[0:], cacheSchemaVersion)
	binary.LittleEndian.PutUint64(hdr[2:], uint64(effectiveMax(opts.MaxDiagnostics)))
	if opts.FailFast {
		hdr[10] = 1
	}
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func effectiveMax(n int) int {
	if n <= 0 {
		return verify.DefaultMaxDiagnostics
	}
	return n
}
