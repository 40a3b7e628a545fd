// Package kernel composes the balances, system and claims modules into a
// runtime that executes blocks of extrinsics.
package kernel

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/256dpi/kernel/balances"
	"github.com/256dpi/kernel/claims"
	"github.com/256dpi/kernel/support"
	"github.com/256dpi/kernel/system"
)

// AccountID identifies a participant.
type AccountID = string

// Balance is an amount of value held by an account.
type Balance = uint64

// BlockNumber is the height of a block.
type BlockNumber = uint64

// Nonce counts the extrinsics submitted by an account.
type Nonce = uint32

// ClaimKey identifies claimed content.
type ClaimKey = string

// Header is the header of a runtime block.
type Header = support.Header[BlockNumber]

// Extrinsic is a runtime call submitted by a caller.
type Extrinsic = support.Extrinsic[AccountID, Call]

// Block is a runtime block.
type Block = support.Block[BlockNumber, AccountID, Call]

// The module instances used by the runtime.
type (
	SystemModule   = system.Module[AccountID, BlockNumber, Nonce]
	BalancesModule = balances.Module[AccountID, Balance]
	ClaimsModule   = claims.Module[AccountID, ClaimKey]
)

// ContentKey will return the claim key of the specified content, which is the
// hex encoded SHA-256 digest.
func ContentKey(content []byte) ClaimKey {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
