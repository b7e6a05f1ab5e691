package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeBet, Bet{Amount: 50})
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeBet, decoded.Type)

	var bet Bet
	require.NoError(t, json.Unmarshal(decoded.Data, &bet))
	assert.Equal(t, 50, bet.Amount)
}

func TestEnvelopeWithoutPayload(t *testing.T) {
	env, err := NewEnvelope(TypeHit, nil)
	require.NoError(t, err)
	assert.Nil(t, env.Data)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"data"`)
}

func TestTableStateOmitsEmptyFields(t *testing.T) {
	state := TableState{
		Phase:   "waiting_for_bet",
		Balance: 1000,
		Hands:   []HandState{},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "bonusBet")
	assert.NotContains(t, string(data), "activeHand")
}
