package blocks

import (
	"bytes"
	"encoding/hex"
	"simple-ledger-go/common"
	"simple-ledger-go/pow"
	"time"
)

const (
	SHORT_HASH_BYTES = 6
)

type Block struct {
	Timestamp  int64  `json:"timestamp"`
	Prev       string `json:"prev"`
	Hash       string `json:"hash"`
	Nonce      uint64 `json:"nonce"`
	Difficulty uint64 `json:"diff"`
	Data       []byte `json:"data"`
}

// NewBlock builds a block from untrusted fields and stamps the current time.
// Nothing is validated here, that is left to the blockchain.
func NewBlock(
	prev string,
	hash string,
	nonce uint64,
	difficulty uint64,
	data []byte,
) Block {
	return Block{
		Timestamp:  time.Now().UnixMilli(),
		Prev:       prev,
		Hash:       hash,
		Nonce:      nonce,
		Difficulty: difficulty,
		Data:       data,
	}
}

func Mine(prev Block, data []byte, mineRate int64) Block {
	return MineWithClock(prev, data, mineRate, pow.NowMilli)
}

func MineWithClock(prev Block, data []byte, mineRate int64, clock pow.Clock) Block {
	payload := bytes.Clone(data)
	miner := pow.NewProofOfWork(
		pow.Predecessor{
			Digest:     prev.Hash,
			Timestamp:  prev.Timestamp,
			Difficulty: prev.Difficulty,
		},
		payload,
		mineRate,
		clock,
	)
	h := miner.Run()
	return Block{
		Timestamp:  h.Timestamp,
		Prev:       prev.Hash,
		Hash:       h.Digest,
		Nonce:      h.Nonce,
		Difficulty: h.Difficulty,
		Data:       payload,
	}
}

func (b *Block) ComputeHash() string {
	return pow.HashFields(b.Prev, b.Timestamp, b.Nonce, b.Difficulty, b.Data)
}

// ValidHash reports whether the stored hash is the digest of the block's own
// fields. It does not check the difficulty target.
func (b *Block) ValidHash() bool {
	return b.ComputeHash() == b.Hash
}

func (b *Block) MeetsDifficulty() bool {
	return pow.MeetsDifficulty(b.Hash, b.Difficulty)
}

// ShortHash is a base58 prefix of the digest for log lines.
func (b *Block) ShortHash() string {
	raw, err := hex.DecodeString(b.Hash)
	if err != nil || len(raw) < SHORT_HASH_BYTES {
		return b.Hash
	}
	return common.ShortId(raw[:SHORT_HASH_BYTES])
}

func Equal(a, b Block) bool {
	return a.Timestamp == b.Timestamp &&
		a.Prev == b.Prev &&
		a.Hash == b.Hash &&
		a.Nonce == b.Nonce &&
		a.Difficulty == b.Difficulty &&
		bytes.Equal(a.Data, b.Data)
}
