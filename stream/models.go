package stream

import (
	"math"

	"github.com/xraph/streamledger/types"
)

// RateLimitHorizon is the settlement horizon, in seconds, that a stream's
// rate must survive without overflowing elapsed*rate. 2^35 seconds is a
// little over a thousand years. An unguarded overflow would permanently
// strand funds — every future settlement on the stream would wrap and fail —
// so the bound is enforced at creation, not merely advised.
const RateLimitHorizon uint64 = 1 << 35

// MaxRate is the largest per-second rate accepted at stream creation.
const MaxRate = math.MaxUint64 / RateLimitHorizon

// Stream is a continuous payment commitment. A stream is active iff
// StartTime != 0; cancellation zeroes StartTime, after which the same
// (payer, payee, rate) triple may be opened again.
type Stream struct {
	types.Entity
	ID        ID     `json:"id"`
	Payer     string `json:"payer"`
	Payee     string `json:"payee"`
	Rate      uint64 `json:"rate"`       // token units per second
	StartTime int64  `json:"start_time"` // unix seconds; 0 = cancelled / never existed
}

// New builds an active stream for the triple starting at the given time.
func New(payer, payee string, rate uint64, startTime int64) *Stream {
	return &Stream{
		Entity:    types.NewEntity(),
		ID:        DeriveID(payer, payee, rate),
		Payer:     payer,
		Payee:     payee,
		Rate:      rate,
		StartTime: startTime,
	}
}

// Active reports whether the stream currently exists.
func (s *Stream) Active() bool {
	return s.StartTime != 0
}

// ValidRate reports whether a per-second rate is acceptable at creation:
// non-zero and small enough that rate*RateLimitHorizon cannot overflow.
func ValidRate(rate uint64) bool {
	return rate > 0 && rate <= MaxRate
}

// Clone returns a deep copy, so callers can stage mutations without
// aliasing stored state.
func (s *Stream) Clone() *Stream {
	cp := *s
	return &cp
}
