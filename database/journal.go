package database

import (
	"encoding/binary"
	"encoding/json"
	"github.com/idena-network/idena-oracle/common"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
	"sync"
)

// JournalEntry records one token movement of the oracle.
type JournalEntry struct {
	Seq      uint64         `json:"seq"`
	Time     int64          `json:"time"`
	Kind     string         `json:"kind"`
	Proposal string         `json:"proposal"`
	Account  common.Address `json:"account"`
	Amount   uint64         `json:"amount"`
}

// Journal is an append-only log of payouts and deposits kept next to the state.
type Journal struct {
	db   dbm.DB
	root dbm.DB
	mtx  sync.Mutex
}

func NewJournal(db dbm.DB) *Journal {
	return &Journal{db: dbm.NewPrefixDB(db, journalPrefix), root: db}
}

func encodeSeq(seq uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, seq)
	return enc
}

func (j *Journal) lastSeq() (uint64, error) {
	data, err := j.root.Get(journalSeqKey)
	if err != nil || len(data) != 8 {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

// Append assigns the next sequence number to entry and stores it.
func (j *Journal) Append(entry JournalEntry) (uint64, error) {
	j.mtx.Lock()
	defer j.mtx.Unlock()
	seq, err := j.lastSeq()
	if err != nil {
		return 0, err
	}
	seq++
	entry.Seq = seq
	data, err := json.Marshal(&entry)
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode journal entry")
	}
	if err := j.db.Set(encodeSeq(seq), data); err != nil {
		return 0, err
	}
	if err := j.root.SetSync(journalSeqKey, encodeSeq(seq)); err != nil {
		return 0, err
	}
	return seq, nil
}

// Iterate walks entries starting from seq in ascending order until callback
// returns true.
func (j *Journal) Iterate(from uint64, callback func(entry *JournalEntry) bool) error {
	it, err := j.db.Iterator(encodeSeq(from), nil)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		entry := new(JournalEntry)
		if err := json.Unmarshal(it.Value(), entry); err != nil {
			return errors.Wrapf(err, "invalid journal entry %x", it.Key())
		}
		if callback(entry) {
			return nil
		}
	}
	return nil
}
