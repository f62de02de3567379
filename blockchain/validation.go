package blockchain

import (
	"encoding/hex"
	"simple-ledger-go/blocks"

	"golang.org/x/crypto/sha3"
)

func isValidGenesis(chain []blocks.Block) bool {
	return blocks.IsGenesis(chain[0])
}

// false when
// 1. a block points at the wrong previous hash
// 2. a block's hash is not the digest of its fields
// 3. a block's hash does not meet its own difficulty
// 4. the difficulty jumps by more than one
func isValidHashChain(chain []blocks.Block) bool {
	for i := 1; i < len(chain); i++ {
		prev, block := &chain[i-1], &chain[i]
		if block.Prev != prev.Hash {
			return false
		}
		if !block.ValidHash() {
			return false
		}
		if !block.MeetsDifficulty() {
			return false
		}
		if difficultyJump(prev.Difficulty, block.Difficulty) > 1 {
			return false
		}
	}
	return true
}

func difficultyJump(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func IsValid(chain []blocks.Block) bool {
	if len(chain) == 0 {
		return false
	}
	return isValidGenesis(chain) && isValidHashChain(chain)
}

// Fingerprint identifies a chain snapshot by hashing every block digest in
// order.
func Fingerprint(chain []blocks.Block) string {
	h := sha3.New256()
	for _, b := range chain {
		h.Write([]byte(b.Hash))
	}
	return hex.EncodeToString(h.Sum(nil))
}
