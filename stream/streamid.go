// Package stream defines payment stream models and deterministic stream
// identity for StreamLedger.
//
// A stream is a continuous payment commitment from a payer to a payee at a
// fixed per-second rate. The (payer, payee, rate) triple IS the identity:
// no counter is involved, so the same triple maps to the same ID across
// processes and deployments, and a cancelled triple can be reused.
package stream

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// IDSize is the byte length of a stream identity digest.
const IDSize = 32

// ID is the deterministic identity of a stream: a SHA3-256 digest over the
// canonical encoding of its (payer, payee, rate) triple. Treat it as an
// opaque fixed-width key, not a display value.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID [IDSize]byte

// DeriveID computes the stream identity for a (payer, payee, rate) triple.
// Pure and collision-resistant; identical triples always produce the same ID.
func DeriveID(payer, payee string, rate uint64) ID {
	// Length-prefixed fields so ("ab","c") and ("a","bc") cannot collide.
	buf := make([]byte, 0, 8+len(payer)+8+len(payee)+8)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(payer)))
	buf = append(buf, payer...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(payee)))
	buf = append(buf, payee...)
	buf = binary.BigEndian.AppendUint64(buf, rate)

	return ID(sha3.Sum256(buf))
}

// ParseID parses a 64-character hex string into an ID.
func ParseID(s string) (ID, error) {
	var sid ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return sid, fmt.Errorf("stream: parse id %q: %w", s, err)
	}
	if len(b) != IDSize {
		return sid, fmt.Errorf("stream: parse id %q: want %d bytes, got %d", s, IDSize, len(b))
	}
	copy(sid[:], b)
	return sid, nil
}

// String returns the lowercase hex form of the ID.
func (sid ID) String() string {
	return hex.EncodeToString(sid[:])
}

// IsZero reports whether the ID is the all-zero value.
func (sid ID) IsZero() bool {
	return sid == ID{}
}

// MarshalText implements encoding.TextMarshaler.
func (sid ID) MarshalText() ([]byte, error) {
	return []byte(sid.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sid *ID) UnmarshalText(data []byte) error {
	parsed, err := ParseID(string(data))
	if err != nil {
		return err
	}
	*sid = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
func (sid ID) Value() (driver.Value, error) {
	return sid.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (sid *ID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return sid.UnmarshalText([]byte(v))
	case []byte:
		return sid.UnmarshalText(v)
	default:
		return fmt.Errorf("stream: cannot scan %T into ID", src)
	}
}
