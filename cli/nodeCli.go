package cli

import (
	"context"
	"os"
	"os/signal"
	"simple-ledger-go/config"
	"simple-ledger-go/nodes"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config key -> node command flag
var nodeFlags = [][2]string{
	{config.NAME_KEY, "name"},
	{config.HTTP_ADDR_KEY, "http"},
	{config.P2P_ADDR_KEY, "p2p"},
	{config.PEERS_KEY, "peer"},
	{config.MINE_RATE_KEY, "mine-rate"},
	{config.TOPIC_KEY, "topic"},
	{config.BUFFER_KEY, "pubsub-buffer"},
	{config.JOURNAL_KEY, "journal"},
}

func bindNodeFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, kf := range nodeFlags {
		if err := v.BindPFlag(kf[0], flags.Lookup(kf[1])); err != nil {
			return errors.Wrapf(err, "bind --%s to %s", kf[1], kf[0])
		}
	}
	return nil
}

func newNodeCmd(v *viper.Viper, load func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "run a ledger node (http api + chain relay)",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindNodeFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			n, err := nodes.NewNode(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return n.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("name", "", "node name, random when empty")
	flags.String("http", config.DEFAULT_HTTP_ADDR, "http api address")
	flags.String("p2p", config.DEFAULT_P2P_ADDR, "relay address")
	flags.StringSlice("peer", nil, "peer relay address, repeatable")
	flags.Duration("mine-rate", config.DEFAULT_MINE_RATE, "target time between blocks")
	flags.String("topic", config.DEFAULT_TOPIC, "pubsub topic (main or test)")
	flags.Int("pubsub-buffer", config.DEFAULT_BUFFER, "messages buffered per pubsub subscriber")
	flags.String("journal", "", "offer journal file, disabled when empty")
	return cmd
}
