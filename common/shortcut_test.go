package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string
	Count int
}

func TestEncodeDecode(t *testing.T) {
	enc, err := Encode(sample{Name: "a", Count: 2})
	require.NoError(t, err)

	dec, err := Decode[sample](enc)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "a", Count: 2}, *dec)

	_, err = Decode[sample]([]byte("{"))
	assert.Error(t, err)
}

func TestToHexIsBigEndianAndOrdered(t *testing.T) {
	a, err := ToHex(uint64(1))
	require.NoError(t, err)
	b, err := ToHex(uint64(256))
	require.NoError(t, err)

	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, a)
	assert.Equal(t, -1, bytes.Compare(a, b))

	n, err := FromHex[uint64](b)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), n)
}

func TestRandomId(t *testing.T) {
	a, err := RandomId(8)
	require.NoError(t, err)
	b, err := RandomId(8)
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "2g", ShortId([]byte{'a'}))
}
