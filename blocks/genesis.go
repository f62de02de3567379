package blocks

const (
	GENESIS_PREV             = "gen-prev"
	GENESIS_HASH             = "gen-hash"
	GENESIS_DIFFICULTY       = 3
	GENESIS_DATA_LEN         = 8
	GENESIS_TIMESTAMP  int64 = 0
)

// Genesis is identical on every call, the timestamp included.
func Genesis() Block {
	return Block{
		Timestamp:  GENESIS_TIMESTAMP,
		Prev:       GENESIS_PREV,
		Hash:       GENESIS_HASH,
		Nonce:      0,
		Difficulty: GENESIS_DIFFICULTY,
		Data:       make([]byte, GENESIS_DATA_LEN),
	}
}

func IsGenesis(b Block) bool {
	return Equal(b, Genesis())
}
