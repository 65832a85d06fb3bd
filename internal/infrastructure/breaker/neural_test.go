package breaker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/titanguardian/internal/domain/guardian"
)

func TestNeuralGate_FetchReturnsInputOnSuccess(t *testing.T) {
	gate := NewNeuralGate("test-gate")

	input := gate.Fetch(func() (guardian.NeuralInput, error) {
		return guardian.NeuralInput{Action: guardian.ActionBuy, Confidence: 0.8}, nil
	})

	require.NotNil(t, input)
	assert.Equal(t, guardian.ActionBuy, input.Action)
	assert.Equal(t, 0.8, input.Confidence)
}

func TestNeuralGate_FetchReturnsNilOnError(t *testing.T) {
	gate := NewNeuralGate("test-gate-2")

	input := gate.Fetch(func() (guardian.NeuralInput, error) {
		return guardian.NeuralInput{}, errors.New("upstream unavailable")
	})

	assert.Nil(t, input)
}

func TestNeuralGate_TripsAfterConsecutiveFailures(t *testing.T) {
	gate := NewNeuralGate("test-gate-3")
	failing := func() (guardian.NeuralInput, error) {
		return guardian.NeuralInput{}, errors.New("boom")
	}

	for i := 0; i < 5; i++ {
		gate.Fetch(failing)
	}

	assert.Equal(t, "open", gate.State())
	assert.Nil(t, gate.Fetch(func() (guardian.NeuralInput, error) {
		return guardian.NeuralInput{Action: guardian.ActionBuy, Confidence: 0.9}, nil
	}), "an open breaker must still degrade gracefully rather than call through")
}
