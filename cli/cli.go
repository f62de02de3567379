package cli

import (
	"simple-ledger-go/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "ledger",
		Short:         "proof of work ledger node and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")

	load := func() (config.Config, error) {
		return config.Load(v, configFile)
	}
	root.AddCommand(
		newNodeCmd(v, load),
		newBlocksCmd(),
		newMineCmd(),
		newBenchCmd(),
	)
	return root
}

func Run() error {
	return newRootCmd().Execute()
}
