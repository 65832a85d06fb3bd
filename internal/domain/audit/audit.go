// Package audit builds the canonical payload for an emitted TradingSignal,
// hashes it, and appends the result to an immutable, append-only log.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/sawpanic/titanguardian/internal/domain/guardian"
)

// actionStr and sourceStr render the audit line's fixed vocabularies.
func actionStr(a guardian.Action) string {
	switch a {
	case guardian.ActionBuy:
		return "BUY"
	case guardian.ActionSell:
		return "SELL"
	case guardian.ActionHold:
		return "HOLD"
	case guardian.ActionHalt:
		return "HALT"
	default:
		return string(a)
	}
}

func sourceStr(s guardian.Source) string {
	switch s {
	case guardian.SourceMathGuardian:
		return "MATH"
	case guardian.SourceNeuralCortex:
		return "NEURAL"
	case guardian.SourceSymbolicConsensus:
		return "CONSENSUS"
	case guardian.SourceEmergencyHalt:
		return "HALT"
	default:
		return string(s)
	}
}

// CanonicalPayload builds the exact string hashed into a signal's proof
// hash: "TITAN:{ts}:{ACTION_STR}:{confidence}:{reasoning}:{SOURCE_STR}".
func CanonicalPayload(sig guardian.TradingSignal) string {
	return fmt.Sprintf("TITAN:%d:%s:%g:%s:%s",
		sig.TimestampMs, actionStr(sig.Action), sig.Confidence, sig.Reasoning, sourceStr(sig.Source))
}

// ProofHash computes the lowercase-hex, 0x-prefixed SHA-256 of a signal's
// canonical payload.
func ProofHash(sig guardian.TradingSignal) string {
	sum := sha256.Sum256([]byte(CanonicalPayload(sig)))
	return "0x" + hex.EncodeToString(sum[:])
}

// Line renders the human-readable audit line for an emitted signal:
// "[{ts}] {ACTION} | Conf: {conf:.2} | Src: {source} | Hash: {first 18
// chars of 0x-hex} | Can Execute: {bool}".
func Line(sig guardian.TradingSignal) string {
	hash := sig.ProofHash
	if len(hash) > 18 {
		hash = hash[:18]
	}
	return fmt.Sprintf("[%d] %s | Conf: %.2f | Src: %s | Hash: %s | Can Execute: %t",
		sig.TimestampMs, actionStr(sig.Action), sig.Confidence, sourceStr(sig.Source), hash, sig.CanExecute)
}

// Log is an append-only sequence of audit lines. It never rewrites or
// removes an entry; callers are responsible for external rotation once it
// grows too large, rotation is deliberately out of scope for the core.
type Log struct {
	lines []string
}

// NewLog returns an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Append adds line to the log exactly as given, with no correlation id.
// Used for non-signal entries such as kill-switch transitions and
// out-of-order tick flags.
func (l *Log) Append(line string) {
	l.lines = append(l.lines, line)
}

// AppendSignal renders and appends the audit line for an emitted signal,
// with a fresh correlation id appended as a trailing field so the fixed
// line prefix (ts/action/confidence/source/hash/can-execute) is never
// disturbed. The id is not part of the canonical payload, so it does not
// affect the proof hash; it lets a host log aggregator join an HTTP
// access-log entry to this audit line. Returns the id.
func (l *Log) AppendSignal(sig guardian.TradingSignal) string {
	cid := uuid.NewString()
	line := fmt.Sprintf("%s | Cid: %s", Line(sig), cid)
	l.lines = append(l.lines, line)
	return cid
}

// Len returns the number of lines currently in the log.
func (l *Log) Len() int { return len(l.lines) }

// Lines returns the full log as a read-only slice, in append order.
func (l *Log) Lines() []string { return l.lines }
