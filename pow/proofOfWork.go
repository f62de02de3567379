package pow

import (
	"time"
)

type Clock func() int64

// NowMilli is the default clock, unix milliseconds.
func NowMilli() int64 {
	return time.Now().UnixMilli()
}

type Predecessor struct {
	Digest     string
	Timestamp  int64
	Difficulty uint64
}

type Header struct {
	Timestamp  int64
	Nonce      uint64
	Difficulty uint64
	Digest     string
}

type ProofOfWork struct {
	prev     Predecessor
	data     []byte
	mineRate int64
	clock    Clock
}

func NewProofOfWork(
	prev Predecessor,
	data []byte,
	mineRate int64,
	clock Clock,
) *ProofOfWork {
	if clock == nil {
		clock = NowMilli
	}
	pow := ProofOfWork{
		prev:     prev,
		data:     data,
		mineRate: mineRate,
		clock:    clock,
	}
	return &pow
}

func (pow *ProofOfWork) hash(timestamp int64, nonce uint64, difficulty uint64) string {
	return HashFields(pow.prev.Digest, timestamp, nonce, difficulty, pow.data)
}

// Run searches nonces one after another. The first attempt keeps the
// predecessor's difficulty; every later attempt resamples the clock and
// retargets against the predecessor.
func (pow *ProofOfWork) Run() Header {
	var nonce uint64 = 0
	timestamp := pow.clock()
	difficulty := pow.prev.Difficulty
	digest := pow.hash(timestamp, nonce, difficulty)

	for !MeetsDifficulty(digest, difficulty) {
		nonce++
		timestamp = pow.clock()
		difficulty = Retarget(
			pow.prev.Timestamp, pow.prev.Difficulty, timestamp, pow.mineRate,
		)
		digest = pow.hash(timestamp, nonce, difficulty)
	}

	return Header{
		Timestamp:  timestamp,
		Nonce:      nonce,
		Difficulty: difficulty,
		Digest:     digest,
	}
}

func (pow *ProofOfWork) Validate(h Header) bool {
	if pow.hash(h.Timestamp, h.Nonce, h.Difficulty) != h.Digest {
		return false
	}
	return MeetsDifficulty(h.Digest, h.Difficulty)
}
