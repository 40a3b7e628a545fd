package balances

import (
	"cmp"

	"github.com/256dpi/kernel/num"
	"github.com/256dpi/kernel/support"
)

// Call is the closed set of externally invocable accounting operations.
type Call[A cmp.Ordered, B num.Unsigned] interface {
	// Name returns the call name used on the wire.
	Name() string

	balancesCall()
}

// Transfer moves Amount from the caller to To.
type Transfer[A cmp.Ordered, B num.Unsigned] struct {
	To     A
	Amount B
}

// Name implements the Call interface.
func (Transfer[A, B]) Name() string {
	return "transfer"
}

func (Transfer[A, B]) balancesCall() {}

// Dispatch will apply the specified call on behalf of the caller.
func (m *Module[A, B]) Dispatch(caller A, call Call[A, B]) error {
	switch c := call.(type) {
	case Transfer[A, B]:
		return m.Transfer(caller, c.To, c.Amount)
	default:
		return support.ErrUnknownCall
	}
}

var _ support.Dispatcher[string, Call[string, uint64]] = (*Module[string, uint64])(nil)
