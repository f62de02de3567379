package client

import (
	"context"
	"net"
	"testing"

	"simple-ledger-go/blockchain"
	"simple-ledger-go/config"
	"simple-ledger-go/nodes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNode(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Name = "client-test"
	n, err := nodes.NewNode(cfg)
	require.NoError(t, err)

	httpLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	p2pLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		n.Serve(ctx, httpLn, p2pLn)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return "http://" + httpLn.Addr().String()
}

func TestClientRoundTrip(t *testing.T) {
	c := NewClient(startNode(t))
	ctx := context.Background()

	chain, err := c.Blocks(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 1)

	block, err := c.Mine(ctx, []byte{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, block.Data)
	assert.True(t, block.ValidHash())

	chain, err = c.Blocks(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, block.Hash, chain[1].Hash)
}

func TestClientOffer(t *testing.T) {
	c := NewClient(startNode(t))
	ctx := context.Background()

	shorter := blockchain.NewBlockchain(blockchain.DEFAULT_MINE_RATE)
	out, err := c.Offer(ctx, shorter.Chain())
	require.NoError(t, err)
	assert.True(t, out.Replaced)
	assert.Equal(t, 1, out.Length)

	_, err = c.Mine(ctx, []byte("x"))
	require.NoError(t, err)
	out, err = c.Offer(ctx, shorter.Chain())
	require.NoError(t, err)
	assert.False(t, out.Replaced)
	assert.Equal(t, 2, out.Length)
}

func TestClientReportsHTTPErrors(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Blocks(context.Background())
	assert.Error(t, err)
}
