package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go-admin-auth/model"
	"strings"
)

// shortHashLen is the prefix length used for quick comparisons and logging.
const shortHashLen = 12

// FingerprintService canonicalizes device fingerprints and compares their
// hashes. The binding is soft: a browser or OS update legitimately changes
// the hash and ends the session, so a mismatch is a risk signal rather than
// a hard trust boundary.
type FingerprintService struct{}

func NewFingerprintService() *FingerprintService {
	return &FingerprintService{}
}

// Hash reduces a fingerprint to a deterministic sha256 hex digest plus a
// truncated prefix for logs.
func (s *FingerprintService) Hash(fp model.DeviceFingerprint) (hash, shortHash string) {
	sum := sha256.Sum256([]byte(canonicalize(fp)))
	hash = hex.EncodeToString(sum[:])
	return hash, hash[:shortHashLen]
}

// Matches recomputes the presented fingerprint's hash and compares it to the
// stored one.
func (s *FingerprintService) Matches(fp model.DeviceFingerprint, storedHash string) bool {
	hash, _ := s.Hash(fp)
	return hash == storedHash
}

// canonicalize joins the fingerprint fields in a fixed order so that equal
// fingerprints always hash identically.
func canonicalize(fp model.DeviceFingerprint) string {
	parts := []string{
		fmt.Sprintf("%dx%dx%d", fp.ScreenWidth, fp.ScreenHeight, fp.ColorDepth),
		fp.Timezone,
		fp.Language,
		fp.UserAgent,
		fp.CanvasHash,
		fp.WebGLHash,
		fmt.Sprintf("%t", fp.TouchSupport),
		fmt.Sprintf("%d", fp.HardwareConcurrency),
		fmt.Sprintf("%d", fp.DeviceMemory),
		fp.Platform,
	}
	return strings.Join(parts, "|")
}
