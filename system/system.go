// Package system implements the sequencing module which tracks the block
// height and a nonce per account.
package system

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/256dpi/kernel/num"
)

// ErrNonceOverflow is returned if the nonce of an account cannot be
// incremented any further. The stored nonce is left unchanged.
var ErrNonceOverflow = errors.New("nonce overflow")

// Module stores the current block number and the nonce of every account that
// has submitted an extrinsic.
type Module[A cmp.Ordered, BN num.Unsigned, N num.Unsigned] struct {
	blockNumber BN
	nonces      map[A]N
}

// New will create and return a module at block zero.
func New[A cmp.Ordered, BN num.Unsigned, N num.Unsigned]() *Module[A, BN, N] {
	return &Module[A, BN, N]{
		nonces: map[A]N{},
	}
}

// BlockNumber will return the current block number.
func (m *Module[A, BN, N]) BlockNumber() BN {
	return m.blockNumber
}

// IncrementBlockNumber will increase the block number by one. It panics if the
// block number would overflow as the runtime cannot continue from there.
func (m *Module[A, BN, N]) IncrementBlockNumber() {
	next, ok := num.CheckedInc(m.blockNumber)
	if !ok {
		panic("system: block number overflow")
	}

	m.blockNumber = next
}

// Nonce will return the nonce of the specified account.
func (m *Module[A, BN, N]) Nonce(who A) N {
	return m.nonces[who]
}

// IncrementNonce will increase the nonce of the specified account by one.
func (m *Module[A, BN, N]) IncrementNonce(who A) error {
	next, ok := num.CheckedInc(m.nonces[who])
	if !ok {
		return ErrNonceOverflow
	}

	m.nonces[who] = next

	return nil
}

// Scan will call fn for every account with a nonce in ascending order until
// fn returns false.
func (m *Module[A, BN, N]) Scan(fn func(A, N) bool) {
	// sort accounts
	accounts := make([]A, 0, len(m.nonces))
	for account := range m.nonces {
		accounts = append(accounts, account)
	}
	slices.Sort(accounts)

	// yield nonces
	for _, account := range accounts {
		if !fn(account, m.nonces[account]) {
			return
		}
	}
}
