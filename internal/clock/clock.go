// Package clock provides an injectable monotonic millisecond time source.
//
// Titan Guardian never calls time.Now directly in its decision path: every
// timestamp that ends up in a TradingSignal or an audit line comes from a
// Clock, so tests can freeze or script time instead of racing the wall
// clock.
package clock

import "time"

// Clock returns the current time as milliseconds since the Unix epoch.
type Clock interface {
	NowMillis() int64
}

// System is the production Clock, backed by time.Now.
type System struct{}

// NowMillis returns the current wall-clock time in milliseconds.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Fixed is a Clock that always returns the same instant. Useful for golden
// tests that assert on exact audit lines or proof hashes.
type Fixed struct {
	Millis int64
}

// NowMillis returns the fixed instant.
func (f Fixed) NowMillis() int64 {
	return f.Millis
}

// Sequence is a Clock that advances by a fixed step on every call, from
// the start value given to NewSequence. Useful for tests that need strictly increasing timestamps without
// coupling to the real clock.
type Sequence struct {
	next int64
	step int64
}

// NewSequence builds a Sequence clock starting at start and advancing by
// step on every NowMillis call (the first call returns start).
func NewSequence(start, step int64) *Sequence {
	return &Sequence{next: start, step: step}
}

// NowMillis returns the next value in the sequence and advances it.
func (s *Sequence) NowMillis() int64 {
	v := s.next
	s.next += s.step
	return v
}
