package journal

import (
	"path/filepath"
	"testing"

	"simple-ledger-go/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTemp(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	return j, path
}

func TestEmptyJournal(t *testing.T) {
	j, _ := openTemp(t)
	defer j.Close()

	latest, err := j.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	entries, err := j.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordKeepsOrder(t *testing.T) {
	j, _ := openTemp(t)
	defer j.Close()

	for i := 1; i <= 300; i++ {
		seq, err := j.Record(Entry{At: int64(i), From: "peer", Length: i, Accepted: i%2 == 0})
		require.NoError(t, err)
		require.Equal(t, uint64(i), seq)
	}

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 300)
	for i, e := range entries {
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, i+1, e.Length)
	}

	latest, err := j.Latest()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), latest.Seq)
	assert.True(t, latest.Accepted)
}

func TestReopenKeepsEntries(t *testing.T) {
	j, path := openTemp(t)
	_, err := j.Record(Entry{From: "a", Fingerprint: "ff", Length: 2})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	seq, err := j.Record(Entry{From: "b", Length: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ff", entries[0].Fingerprint)
	assert.Equal(t, "b", entries[1].From)
}

func TestEntriesRejectsMisfiledEntry(t *testing.T) {
	j, _ := openTemp(t)
	defer j.Close()
	_, err := j.Record(Entry{From: "a", Length: 2})
	require.NoError(t, err)

	err = j.innerDb.Update(func(tx *bolt.Tx) error {
		key, err := common.ToHex(uint64(9))
		if err != nil {
			return err
		}
		enc, err := common.Encode(Entry{Seq: 4, From: "b"})
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(OFFERS_BUCKET)).Put(key, enc)
	})
	require.NoError(t, err)

	_, err = j.Entries()
	assert.ErrorContains(t, err, "stored under key 9")
}
