// Package claims implements the claims module. An account may claim a key
// to record that it is the owner of some content.
package claims

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"
)

// ErrClaimAlreadyExists is returned if a key is already owned by an account.
var ErrClaimAlreadyExists = errors.New("claim already exists")

// ErrClaimNotFound is returned if a key is not claimed.
var ErrClaimNotFound = errors.New("claim not found")

// ErrNotClaimOwner is returned if the caller does not own the claimed key.
var ErrNotClaimOwner = errors.New("caller is not the claim owner")

// Module maps claimed keys to their owners.
type Module[A cmp.Ordered, K cmp.Ordered] struct {
	claims map[K]A
}

// New will create and return an empty module.
func New[A cmp.Ordered, K cmp.Ordered]() *Module[A, K] {
	return &Module[A, K]{
		claims: map[K]A{},
	}
}

// Claim will return the owner of the specified key if it is claimed.
func (m *Module[A, K]) Claim(key K) (A, bool) {
	owner, ok := m.claims[key]
	return owner, ok
}

// CreateClaim will register the caller as the owner of the key.
func (m *Module[A, K]) CreateClaim(caller A, key K) error {
	// check existing claim
	if _, ok := m.claims[key]; ok {
		return ErrClaimAlreadyExists
	}

	// store claim
	m.claims[key] = caller

	return nil
}

// RevokeClaim will remove the claim on the key if it is owned by the caller.
func (m *Module[A, K]) RevokeClaim(caller A, key K) error {
	// get owner
	owner, ok := m.claims[key]
	if !ok {
		return ErrClaimNotFound
	}

	// check owner
	if owner != caller {
		return ErrNotClaimOwner
	}

	// remove claim
	delete(m.claims, key)

	return nil
}

// Scan will call fn for every claim in ascending key order until fn returns
// false.
func (m *Module[A, K]) Scan(fn func(K, A) bool) {
	keys := make([]K, 0, len(m.claims))
	for key := range m.claims {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !fn(key, m.claims[key]) {
			return
		}
	}
}
