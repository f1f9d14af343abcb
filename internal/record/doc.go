// Package record defines the plain records the analytics engine reads and
// the deterministic serialisation used to fingerprint them.
//
// Records are handed to the engine by the host store on every invocation.
// The engine never mutates them and never keeps references after returning.
//
// # Canonical form
//
// MarshalCanonical produces a byte-stable JSON encoding:
//   - object keys sorted by UTF-16 code units
//   - strings NFC-normalised, no HTML escaping
//   - finite floats in shortest round-trip form; NaN and Inf are rejected
//   - null is rejected (optional fields are omitted instead)
//   - timestamps as RFC 3339 with nanoseconds, in UTC
//
// InputHash and ResultHash hash canonical bytes with domain separation so a
// host can tell that two evaluations saw identical input.
package record
