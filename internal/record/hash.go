package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows the
// canonical form to change without colliding with old hashes.
const (
	DomainInput  = "horizon/input/v1"
	DomainResult = "horizon/result/v1"
	DomainEvent  = "horizon/event/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputHash fingerprints an evaluation input tree.
func InputHash(v any) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("InputHash: %w", err)
	}
	return hashWithDomain(DomainInput, data), nil
}

// ResultHash fingerprints an evaluation result tree.
func ResultHash(v any) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("ResultHash: %w", err)
	}
	return hashWithDomain(DomainResult, data), nil
}

// EventFingerprint identifies an alignment event by content, ignoring its
// ID. Hosts use it to spot rows that were imported twice.
func EventFingerprint(e AlignmentEvent) (string, error) {
	c := e.Canonical()
	delete(c, "id")
	data, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("EventFingerprint: %w", err)
	}
	return hashWithDomain(DomainEvent, data), nil
}
