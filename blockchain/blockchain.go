package blockchain

import (
	"simple-ledger-go/blocks"

	"golang.org/x/exp/slices"
)

const (
	DEFAULT_MINE_RATE int64 = 1000
)

// Blockchain has a single owner and no locking of its own. Whoever holds it
// serializes AddBlock, Replace and Chain.
type Blockchain struct {
	chain    []blocks.Block
	mineRate int64
}

func NewBlockchain(mineRate int64) *Blockchain {
	if mineRate <= 0 {
		mineRate = DEFAULT_MINE_RATE
	}
	return &Blockchain{
		chain:    []blocks.Block{blocks.Genesis()},
		mineRate: mineRate,
	}
}

func (bc *Blockchain) MineRate() int64 {
	return bc.mineRate
}

// AddBlock mines a block on top of the current tip and appends it.
// It only returns once the proof of work is found.
func (bc *Blockchain) AddBlock(data []byte) blocks.Block {
	block := blocks.Mine(bc.Last(), data, bc.mineRate)
	bc.chain = append(bc.chain, block)
	return block
}

func (bc *Blockchain) Last() blocks.Block {
	return bc.chain[len(bc.chain)-1]
}

func (bc *Blockchain) Len() int {
	return len(bc.chain)
}

// Chain returns a copy of the block sequence.
func (bc *Blockchain) Chain() []blocks.Block {
	return slices.Clone(bc.chain)
}

// Replace adopts the candidate when it is valid and not shorter than the
// current chain. A valid candidate of equal length wins.
func (bc *Blockchain) Replace(candidate []blocks.Block) bool {
	if len(candidate) < len(bc.chain) || !IsValid(candidate) {
		return false
	}
	bc.chain = slices.Clone(candidate)
	return true
}
