package cli

import (
	"encoding/json"
	"fmt"
	"simple-ledger-go/client"

	"github.com/spf13/cobra"
)

const (
	DEFAULT_NODE_URL = "http://127.0.0.1:8080"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newBlocksCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "print the chain held by a node",
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := client.NewClient(url).Blocks(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, chain)
		},
	}
	cmd.Flags().StringVar(&url, "url", DEFAULT_NODE_URL, "node api url")
	return cmd
}

func newMineCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "mine DATA",
		Short: "ask a node to mine a block carrying DATA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, err := client.NewClient(url).Mine(cmd.Context(), []byte(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "mined block %s\n", block.ShortHash())
			return printJSON(cmd, block)
		},
	}
	cmd.Flags().StringVar(&url, "url", DEFAULT_NODE_URL, "node api url")
	return cmd
}
