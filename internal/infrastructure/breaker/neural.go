// Package breaker wraps the neural-policy collaborator behind a circuit
// breaker. A neural policy is an external, stochastic process: if it
// starts erroring or timing out, the breaker trips and callers fall back
// to a Math-only decision rather than waiting on, or propagating errors
// from, a degraded collaborator.
package breaker

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/sawpanic/titanguardian/internal/domain/guardian"
)

// NeuralFetcher is whatever the host uses to reach the neural policy:
// an RPC client, an in-process model call, anything that can fail.
type NeuralFetcher func() (guardian.NeuralInput, error)

// NeuralGate guards calls to a NeuralFetcher behind a circuit breaker.
type NeuralGate struct {
	cb *gobreaker.CircuitBreaker
}

// NewNeuralGate builds a gate that trips after 5 consecutive failures and
// stays open for 30s before probing again.
func NewNeuralGate(name string) *NeuralGate {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("gate", name).Str("from", from.String()).Str("to", to.String()).Msg("neural gate state change")
		},
	}
	return &NeuralGate{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Fetch calls fetch through the breaker. If the breaker is open or fetch
// errors, Fetch returns nil (it has no error result), so
// GenerateSignal falls through to its math-only arbitration row instead
// of surfacing a transport failure as a trading decision.
func (g *NeuralGate) Fetch(fetch NeuralFetcher) *guardian.NeuralInput {
	result, err := g.cb.Execute(func() (interface{}, error) {
		input, err := fetch()
		if err != nil {
			return nil, err
		}
		return input, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("neural fetch unavailable, proceeding math-only")
		return nil
	}

	input, ok := result.(guardian.NeuralInput)
	if !ok {
		log.Error().Msg(fmt.Sprintf("neural gate returned unexpected type %T", result))
		return nil
	}
	return &input
}

// State returns the breaker's current state name, for /healthz reporting.
func (g *NeuralGate) State() string {
	return g.cb.State().String()
}
