package kernel

import (
	"github.com/256dpi/kernel/balances"
	"github.com/256dpi/kernel/claims"
)

// The module names used to tag calls.
const (
	SystemName   = "system"
	BalancesName = "balances"
	ClaimsName   = "claims"
)

// Call is the union of all module calls. The set of variants is closed.
type Call interface {
	// Module returns the name of the module owning the call.
	Module() string

	// Name returns the name of the call within its module.
	Name() string

	runtimeCall()
}

// BalancesCall wraps a call of the balances module.
type BalancesCall struct {
	Call balances.Call[AccountID, Balance]
}

// Module implements the Call interface.
func (c BalancesCall) Module() string {
	return BalancesName
}

// Name implements the Call interface.
func (c BalancesCall) Name() string {
	if c.Call == nil {
		return ""
	}

	return c.Call.Name()
}

func (BalancesCall) runtimeCall() {}

// ClaimsCall wraps a call of the claims module.
type ClaimsCall struct {
	Call claims.Call[ClaimKey]
}

// Module implements the Call interface.
func (c ClaimsCall) Module() string {
	return ClaimsName
}

// Name implements the Call interface.
func (c ClaimsCall) Name() string {
	if c.Call == nil {
		return ""
	}

	return c.Call.Name()
}

func (ClaimsCall) runtimeCall() {}

// Transfer returns a call that moves amount from the caller to the recipient.
func Transfer(to AccountID, amount Balance) Call {
	return BalancesCall{Call: balances.Transfer[AccountID, Balance]{
		To:     to,
		Amount: amount,
	}}
}

// CreateClaim returns a call that claims the key for the caller.
func CreateClaim(key ClaimKey) Call {
	return ClaimsCall{Call: claims.Create[ClaimKey]{Key: key}}
}

// RevokeClaim returns a call that revokes the caller's claim on the key.
func RevokeClaim(key ClaimKey) Call {
	return ClaimsCall{Call: claims.Revoke[ClaimKey]{Key: key}}
}
