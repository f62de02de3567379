package journal

import (
	"log"
	"simple-ledger-go/common"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	OFFERS_BUCKET = "offers"
	META_BUCKET   = "meta"
	LATEST_TAG    = "latest"
)

// Entry records one fork choice decision. The chain itself is not kept.
type Entry struct {
	Seq         uint64
	At          int64
	From        string
	Fingerprint string
	Length      int
	Accepted    bool
}

type Journal struct {
	innerDb *bolt.DB
}

func Open(path string) (*Journal, error) {
	if common.ExistFile(path) {
		log.Printf("found existing journal at %s\n", path)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(OFFERS_BUCKET)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(META_BUCKET))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create journal buckets")
	}
	return &Journal{db}, nil
}

// Record appends the entry under the next sequence number and returns it.
func (j *Journal) Record(entry Entry) (uint64, error) {
	err := j.innerDb.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(OFFERS_BUCKET))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		entry.Seq = seq
		key, err := common.ToHex(seq)
		if err != nil {
			return err
		}
		enc, err := common.Encode(entry)
		if err != nil {
			return err
		}
		if err = b.Put(key, enc); err != nil {
			return err
		}
		return tx.Bucket([]byte(META_BUCKET)).Put([]byte(LATEST_TAG), key)
	})
	if err != nil {
		return 0, errors.Wrap(err, "record offer")
	}
	return entry.Seq, nil
}

func (j *Journal) Latest() (*Entry, error) {
	var enc []byte
	err := j.innerDb.View(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(META_BUCKET)).Get([]byte(LATEST_TAG))
		if key == nil {
			return nil
		}
		enc = copyBytes(tx.Bucket([]byte(OFFERS_BUCKET)).Get(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, nil
	}
	return common.Decode[Entry](enc)
}

// Entries lists every entry in the order it was recorded.
func (j *Journal) Entries() ([]Entry, error) {
	entries := []Entry{}
	err := j.innerDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(OFFERS_BUCKET)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			seq, err := common.FromHex[uint64](k)
			if err != nil {
				return errors.Wrapf(err, "bad journal key %x", k)
			}
			entry, err := common.Decode[Entry](v)
			if err != nil {
				return err
			}
			if entry.Seq != seq {
				return errors.Errorf("journal entry %d stored under key %d", entry.Seq, seq)
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	return entries, err
}

func (j *Journal) Close() error {
	return j.innerDb.Close()
}

// bolt values are only valid inside the transaction
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
