package claims

import (
	"cmp"

	"github.com/256dpi/kernel/support"
)

// Call is the closed set of externally invocable claim operations.
type Call[K cmp.Ordered] interface {
	// Name returns the call name used on the wire.
	Name() string

	claimsCall()
}

// Create claims Key for the caller.
type Create[K cmp.Ordered] struct {
	Key K
}

// Name implements the Call interface.
func (Create[K]) Name() string {
	return "create_claim"
}

func (Create[K]) claimsCall() {}

// Revoke releases the caller's claim on Key.
type Revoke[K cmp.Ordered] struct {
	Key K
}

// Name implements the Call interface.
func (Revoke[K]) Name() string {
	return "revoke_claim"
}

func (Revoke[K]) claimsCall() {}

// Dispatch will apply the specified call on behalf of the caller.
func (m *Module[A, K]) Dispatch(caller A, call Call[K]) error {
	switch c := call.(type) {
	case Create[K]:
		return m.CreateClaim(caller, c.Key)
	case Revoke[K]:
		return m.RevokeClaim(caller, c.Key)
	default:
		return support.ErrUnknownCall
	}
}

var _ support.Dispatcher[string, Call[string]] = (*Module[string, string])(nil)
