package ledger

import (
	"encoding/binary"
	"github.com/idena-network/idena-oracle/common"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
	"sync"
)

var memLedgerPrefix = []byte("bal")

// MemLedger is a standalone ledger over a key/value database. Both sides of a
// transfer are written in one batch.
type MemLedger struct {
	db   dbm.DB
	lock sync.Mutex
}

func NewMemLedger(db dbm.DB) *MemLedger {
	return &MemLedger{db: dbm.NewPrefixDB(db, memLedgerPrefix)}
}

func balanceKey(mint, addr common.Address) []byte {
	return append(append([]byte{}, mint[:]...), addr[:]...)
}

func (l *MemLedger) balance(mint, addr common.Address) uint64 {
	data, err := l.db.Get(balanceKey(mint, addr))
	if err != nil || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

func (l *MemLedger) Balance(mint, addr common.Address) uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.balance(mint, addr)
}

func encodeAmount(amount uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, amount)
	return b
}

func (l *MemLedger) Transfer(mint, from, to common.Address, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if amount == 0 || from == to {
		return nil
	}
	fromBalance := l.balance(mint, from)
	if fromBalance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%v has %d, needs %d", from.Hex(), fromBalance, amount)
	}
	toBalance := l.balance(mint, to)
	if toBalance+amount < toBalance {
		return ErrBalanceOverflow
	}
	batch := l.db.NewBatch()
	defer batch.Close()
	batch.Set(balanceKey(mint, from), encodeAmount(fromBalance-amount))
	batch.Set(balanceKey(mint, to), encodeAmount(toBalance+amount))
	return batch.WriteSync()
}

func (l *MemLedger) Mint(mint, to common.Address, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	balance := l.balance(mint, to)
	if balance+amount < balance {
		return ErrBalanceOverflow
	}
	return l.db.SetSync(balanceKey(mint, to), encodeAmount(balance+amount))
}
