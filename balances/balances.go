// Package balances implements the accounting module. It keeps track of how
// much balance each account holds.
package balances

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/256dpi/kernel/num"
)

// ErrInsufficientFunds is returned if the sender of a transfer does not hold
// the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrOverflow is returned if a transfer would push the recipient balance past
// the maximum representable value.
var ErrOverflow = errors.New("balance overflow")

// Module stores a balance per account. Accounts that have never been written
// hold a zero balance.
type Module[A cmp.Ordered, B num.Unsigned] struct {
	balances map[A]B
}

// New will create and return an empty module.
func New[A cmp.Ordered, B num.Unsigned]() *Module[A, B] {
	return &Module[A, B]{
		balances: map[A]B{},
	}
}

// Balance will return the balance of the specified account.
func (m *Module[A, B]) Balance(who A) B {
	return m.balances[who]
}

// SetBalance will overwrite the balance of the specified account. It bypasses
// all checks and is meant for genesis initialization.
func (m *Module[A, B]) SetBalance(who A, amount B) {
	m.balances[who] = amount
}

// Transfer will move amount from caller to the recipient. Nothing is written
// if either the debit or the credit is out of range.
func (m *Module[A, B]) Transfer(caller, to A, amount B) error {
	// get current balances
	callerBalance := m.Balance(caller)
	toBalance := m.Balance(to)

	// compute debit
	newCallerBalance, ok := num.CheckedSub(callerBalance, amount)
	if !ok {
		return ErrInsufficientFunds
	}

	// compute credit
	newToBalance, ok := num.CheckedAdd(toBalance, amount)
	if !ok {
		return ErrOverflow
	}

	// a self transfer cancels out, write the balance once so the key is known
	if caller == to {
		m.balances[caller] = callerBalance
		return nil
	}

	// write balances
	m.balances[caller] = newCallerBalance
	m.balances[to] = newToBalance

	return nil
}

// Scan will call fn for every known account in ascending order until fn
// returns false.
func (m *Module[A, B]) Scan(fn func(A, B) bool) {
	// sort accounts
	accounts := make([]A, 0, len(m.balances))
	for account := range m.balances {
		accounts = append(accounts, account)
	}
	slices.Sort(accounts)

	// yield balances
	for _, account := range accounts {
		if !fn(account, m.balances[account]) {
			return
		}
	}
}

// Length will return the number of known accounts.
func (m *Module[A, B]) Length() int {
	return len(m.balances)
}
