package ledger

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/core/state"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

// Ledger moves token base units between named balances and issues new ones.
// A failed transfer changes nothing.
type Ledger interface {
	Balance(mint, addr common.Address) uint64
	Transfer(mint, from, to common.Address, amount uint64) error
	Mint(mint, to common.Address, amount uint64) error
}

// StateLedger keeps balances in the oracle state, so transfers are committed
// and rolled back together with the records that caused them.
type StateLedger struct {
	state *state.StateDB
}

func NewStateLedger(stateDb *state.StateDB) *StateLedger {
	return &StateLedger{state: stateDb}
}

func (l *StateLedger) Balance(mint, addr common.Address) uint64 {
	return l.state.GetBalance(mint, addr)
}

func (l *StateLedger) Transfer(mint, from, to common.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fromBalance := l.state.GetBalance(mint, from)
	if fromBalance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%v has %d, needs %d", from.Hex(), fromBalance, amount)
	}
	toBalance := l.state.GetBalance(mint, to)
	if toBalance+amount < toBalance {
		return ErrBalanceOverflow
	}
	l.state.SetBalance(mint, from, fromBalance-amount)
	l.state.SetBalance(mint, to, toBalance+amount)
	return nil
}

// Mint credits new tokens to addr.
func (l *StateLedger) Mint(mint, to common.Address, amount uint64) error {
	balance := l.state.GetBalance(mint, to)
	if balance+amount < balance {
		return ErrBalanceOverflow
	}
	l.state.SetBalance(mint, to, balance+amount)
	return nil
}
