package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/titanguardian/internal/domain/guardian"
)

func sampleSignal() guardian.TradingSignal {
	return guardian.TradingSignal{
		Action:      guardian.ActionBuy,
		Confidence:  0.875,
		Reasoning:   "RSI deeply oversold (<25)",
		Source:      guardian.SourceMathGuardian,
		TimestampMs: 1700000000000,
		CanExecute:  true,
	}
}

func TestCanonicalPayload_FixedFormat(t *testing.T) {
	payload := CanonicalPayload(sampleSignal())

	assert.Equal(t, "TITAN:1700000000000:BUY:0.875:RSI deeply oversold (<25):MATH", payload)
}

func TestProofHash_MatchesManualSHA256(t *testing.T) {
	sig := sampleSignal()
	sum := sha256.Sum256([]byte(CanonicalPayload(sig)))
	want := "0x" + hex.EncodeToString(sum[:])

	assert.Equal(t, want, ProofHash(sig))
}

func TestProofHash_Determinism(t *testing.T) {
	sig := sampleSignal()
	assert.Equal(t, ProofHash(sig), ProofHash(sig))
}

func TestLine_FixedFormat(t *testing.T) {
	sig := sampleSignal()
	sig.ProofHash = ProofHash(sig)

	line := Line(sig)

	assert.True(t, strings.HasPrefix(line, "[1700000000000] BUY | Conf: 0.88 | Src: MATH | Hash: "))
	assert.Contains(t, line, "Can Execute: true")
}

func TestLine_HashTruncatedToEighteenChars(t *testing.T) {
	sig := sampleSignal()
	sig.ProofHash = ProofHash(sig)

	line := Line(sig)
	hashStart := strings.Index(line, "Hash: ") + len("Hash: ")
	hashEnd := strings.Index(line[hashStart:], " |")
	hashField := line[hashStart : hashStart+hashEnd]

	require.Len(t, hashField, 18)
}

func TestLog_AppendOnlyAndMonotonicLength(t *testing.T) {
	log := NewLog()
	assert.Equal(t, 0, log.Len())

	log.Append("line one")
	assert.Equal(t, 1, log.Len())

	cid := log.AppendSignal(sampleSignal())
	assert.Equal(t, 2, log.Len())
	assert.NotEmpty(t, cid)

	lines := log.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "line one", lines[0])
	assert.Contains(t, lines[1], "Cid: "+cid)
}

func TestAppendSignal_PreservesFixedLinePrefix(t *testing.T) {
	log := NewLog()
	sig := sampleSignal()
	sig.ProofHash = ProofHash(sig)

	log.AppendSignal(sig)

	line := log.Lines()[0]
	assert.True(t, strings.HasPrefix(line, Line(sig)), "correlation id must be a suffix, not disturb the fixed prefix")
}
