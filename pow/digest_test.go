package pow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFieldsByteOrder(t *testing.T) {
	digest := HashFields("gen-hash", 1000, 7, 3, []byte{1, 2, 3})
	assert.Equal(t,
		"0E35505B2F2B464949FADCD67231B53380A65088692A2D610D3177F9FB25CC5E",
		digest,
	)

	empty := HashFields("", 0, 0, 0, nil)
	assert.Equal(t,
		"9D908ECFB6B256DEF8B49A7C504E6C889C4B0E41FE6CE3E01863DD7B61A20AA0",
		empty,
	)
}

func TestHashFieldsChangesWithEveryField(t *testing.T) {
	base := HashFields("prev", 1, 2, 3, []byte("data"))
	assert.NotEqual(t, base, HashFields("prev!", 1, 2, 3, []byte("data")))
	assert.NotEqual(t, base, HashFields("prev", 2, 2, 3, []byte("data")))
	assert.NotEqual(t, base, HashFields("prev", 1, 3, 3, []byte("data")))
	assert.NotEqual(t, base, HashFields("prev", 1, 2, 4, []byte("data")))
	assert.NotEqual(t, base, HashFields("prev", 1, 2, 3, []byte("date")))
}

func TestHexToBinary(t *testing.T) {
	bits, err := HexToBinary("0aF9")
	require.NoError(t, err)
	assert.Equal(t, "0000101011111001", bits)

	_, err = HexToBinary("gen-hash")
	assert.Error(t, err)
}

func TestMeetsDifficultyCountsBitsNotNibbles(t *testing.T) {
	// 0x0E is 0000 1110
	digest := "0E35505B2F2B464949FADCD67231B53380A65088692A2D610D3177F9FB25CC5E"
	assert.True(t, MeetsDifficulty(digest, 0))
	assert.True(t, MeetsDifficulty(digest, 4))
	assert.False(t, MeetsDifficulty(digest, 5))

	assert.True(t, MeetsDifficulty("07", 5))
	assert.False(t, MeetsDifficulty("08", 5))
	assert.True(t, MeetsDifficulty("0f", 4))
	assert.False(t, MeetsDifficulty("0f", 9))
	assert.False(t, MeetsDifficulty("gen-hash", 0))
}

func TestRetarget(t *testing.T) {
	tests := []struct {
		name      string
		prevTs    int64
		prevDiff  uint64
		timestamp int64
		want      uint64
	}{
		{"faster than mine rate raises", 1000, 5, 1500, 6},
		{"exactly at mine rate lowers", 1000, 5, 2000, 4},
		{"slower than mine rate lowers", 1000, 5, 9000, 4},
		{"floors at zero", 1000, 0, 9000, 0},
		{"caps at max", 1000, MAX_DIFFICULTY, 1001, MAX_DIFFICULTY},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Retarget(tt.prevTs, tt.prevDiff, tt.timestamp, 1000)
			assert.Equal(t, tt.want, got)
		})
	}
}
