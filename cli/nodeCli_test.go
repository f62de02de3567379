package cli

import (
	"testing"
	"time"

	"simple-ledger-go/config"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeFlagsReachConfig(t *testing.T) {
	v := viper.New()
	cmd := newNodeCmd(v, nil)
	flags := cmd.Flags()
	require.NoError(t, bindNodeFlags(v, flags))

	require.NoError(t, flags.Set("pubsub-buffer", "32"))
	require.NoError(t, flags.Set("mine-rate", "250ms"))
	require.NoError(t, flags.Set("peer", "127.0.0.1:3001"))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.PubsubBuffer)
	assert.Equal(t, 250*time.Millisecond, cfg.MineRate)
	assert.Equal(t, []string{"127.0.0.1:3001"}, cfg.Peers)
	assert.Equal(t, config.DEFAULT_TOPIC, cfg.Topic)
}

func TestBindNodeFlagsReportsMissingFlag(t *testing.T) {
	err := bindNodeFlags(viper.New(), pflag.NewFlagSet("empty", pflag.ContinueOnError))
	assert.ErrorContains(t, err, "--name")
}
