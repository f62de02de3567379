package p2p

import (
	"testing"

	"simple-ledger-go/blocks"
	"simple-ledger-go/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	msg := ChainMsg{
		From:  NewNodeId("127.0.0.1:3000", "a"),
		Topic: "main",
		Chain: []blocks.Block{blocks.Genesis()},
	}
	enc, err := common.Encode(msg)
	require.NoError(t, err)

	kind, body, err := SplitPayload(CHAIN_MSG.MakePayload(enc))
	require.NoError(t, err)
	assert.Equal(t, CHAIN_MSG, kind)
	assert.Equal(t, "chain message", kind.ToString())

	dec, err := common.Decode[ChainMsg](body)
	require.NoError(t, err)
	assert.Equal(t, "a", dec.From.Name)
	assert.True(t, blocks.IsGenesis(dec.Chain[0]))
}

func TestSplitEmptyPayload(t *testing.T) {
	_, _, err := SplitPayload(nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
	assert.Equal(t, "unknown message 9", MessageKind(9).ToString())
}

func TestIsSameIp(t *testing.T) {
	assert.True(t, IsSameIp(NewNodeId("h:1", "a"), NewNodeId("h:1", "b")))
	assert.False(t, IsSameIp(NewNodeId("h:1", "a"), NewNodeId("h:2", "a")))
}
