package cli

import (
	"encoding/binary"
	"fmt"
	"simple-ledger-go/blockchain"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type BenchResult struct {
	Blocks         int
	MeanIntervalMs int64
	LastDifficulty uint64
	Valid          bool
}

// bench mines n blocks on a fresh chain and measures the mean time between
// them. The genesis block has a fixed timestamp so the first block is not
// counted.
func bench(n int, mineRate time.Duration, bar *progressbar.ProgressBar) (BenchResult, error) {
	if n <= 0 {
		return BenchResult{}, errors.New("need at least one block")
	}
	bc := blockchain.NewBlockchain(mineRate.Milliseconds())
	bc.AddBlock([]byte("warmup"))

	var total int64
	for i := 0; i < n; i++ {
		last := bc.Last().Timestamp
		bc.AddBlock(binary.LittleEndian.AppendUint64(nil, uint64(i)))
		total += bc.Last().Timestamp - last
		if bar != nil {
			if err := bar.Add(1); err != nil {
				return BenchResult{}, errors.Wrap(err, "update progress bar")
			}
		}
	}
	return BenchResult{
		Blocks:         n,
		MeanIntervalMs: total / int64(n),
		LastDifficulty: bc.Last().Difficulty,
		Valid:          blockchain.IsValid(bc.Chain()),
	}, nil
}

func newBenchCmd() *cobra.Command {
	var count int
	var mineRate time.Duration
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "mine blocks locally and compare the mean interval with the mine rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			bar := progressbar.NewOptions(
				count,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetDescription("Mining blocks..."),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
			)
			res, err := bench(count, mineRate, bar)
			if err != nil {
				return err
			}
			if err := bar.Finish(); err != nil {
				return errors.Wrap(err, "finish progress bar")
			}
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"blocks: %d\nmine rate: %dms\nmean interval: %dms\nlast difficulty: %d\nvalid: %t\n",
				res.Blocks, mineRate.Milliseconds(), res.MeanIntervalMs, res.LastDifficulty, res.Valid,
			)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "blocks", "n", 100, "blocks to mine")
	cmd.Flags().DurationVar(&mineRate, "mine-rate", 100*time.Millisecond, "target time between blocks")
	return cmd
}
