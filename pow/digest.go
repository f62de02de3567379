package pow

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	MAX_DIFFICULTY uint64 = sha256.Size * 8
)

var nibbles = map[rune]string{
	'0': "0000", '1': "0001", '2': "0010", '3': "0011",
	'4': "0100", '5': "0101", '6': "0110", '7': "0111",
	'8': "1000", '9': "1001", 'A': "1010", 'B': "1011",
	'C': "1100", 'D': "1101", 'E': "1110", 'F': "1111",
}

// HashFields is the block digest: sha256 over the little-endian timestamp,
// the previous digest, little-endian nonce and difficulty, then the payload.
// The result is uppercase hex.
func HashFields(
	prevDigest string,
	timestamp int64,
	nonce uint64,
	difficulty uint64,
	data []byte,
) string {
	buf := make([]byte, 0, 24+len(prevDigest)+len(data))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(timestamp))
	buf = append(buf, prevDigest...)
	buf = binary.LittleEndian.AppendUint64(buf, nonce)
	buf = binary.LittleEndian.AppendUint64(buf, difficulty)
	buf = append(buf, data...)

	sum := sha256.Sum256(buf)
	return fmt.Sprintf("%X", sum[:])
}

// HexToBinary expands every hex character into its four bit string.
func HexToBinary(hex string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(hex) * 4)
	for _, c := range strings.ToUpper(hex) {
		bits, ok := nibbles[c]
		if !ok {
			return "", fmt.Errorf("invalid hex character %q", c)
		}
		sb.WriteString(bits)
	}
	return sb.String(), nil
}

func MeetsDifficulty(digest string, difficulty uint64) bool {
	bits, err := HexToBinary(digest)
	if err != nil {
		return false
	}
	if difficulty > uint64(len(bits)) {
		return false
	}
	return strings.Count(bits[:difficulty], "0") == int(difficulty)
}

// Retarget raises the difficulty by one when a block arrives before the
// mine rate has elapsed since its predecessor and lowers it by one otherwise.
// The result stays within [0, MAX_DIFFICULTY].
func Retarget(
	prevTimestamp int64,
	prevDifficulty uint64,
	timestamp int64,
	mineRate int64,
) uint64 {
	if prevTimestamp+mineRate > timestamp {
		if prevDifficulty >= MAX_DIFFICULTY {
			return MAX_DIFFICULTY
		}
		return prevDifficulty + 1
	}
	if prevDifficulty == 0 {
		return 0
	}
	return prevDifficulty - 1
}
