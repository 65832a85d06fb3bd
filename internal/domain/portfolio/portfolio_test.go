package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UpdatePositionIsIdempotent(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.UpdatePosition("BTCUSD", 1.5, 50000))
	require.NoError(t, s.UpdatePosition("BTCUSD", 1.5, 50000))

	assert.Equal(t, 1, s.Count())
}

func TestMemoryStore_GetStateJSONReflectsLatestWrite(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.UpdatePosition("ETHUSD", 2.0, 3000))

	data, err := s.GetStateJSON()
	require.NoError(t, err)

	var snapshot map[string]Position
	require.NoError(t, json.Unmarshal(data, &snapshot))

	pos, ok := snapshot["ETHUSD"]
	require.True(t, ok)
	assert.Equal(t, 2.0, pos.Quantity)
	assert.Equal(t, 3000.0, pos.Price)
}

func TestMemoryStore_CountTracksDistinctSymbols(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.UpdatePosition("BTCUSD", 1, 1))
	require.NoError(t, s.UpdatePosition("ETHUSD", 1, 1))

	assert.Equal(t, 2, s.Count())
}
