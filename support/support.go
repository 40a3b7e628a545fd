// Package support defines the contract shared by modules and the runtime.
package support

import "github.com/pkg/errors"

// ErrUnknownCall is returned if a dispatcher receives a call it does not own.
var ErrUnknownCall = errors.New("unknown call")

// Dispatcher applies exactly one state transition described by a call on
// behalf of a caller or fails. The error returned by the called operation is
// returned unchanged.
type Dispatcher[A any, C any] interface {
	Dispatch(caller A, call C) error
}

// Header carries the metadata of a block.
type Header[BN any] struct {
	// The declared height of the block.
	BlockNumber BN
}

// Extrinsic is a single instruction submitted from outside the runtime.
type Extrinsic[A any, C any] struct {
	// The account on whose behalf the call is applied.
	Caller A

	// The call to apply.
	Call C
}

// Block is an ordered batch of extrinsics. Extrinsics are applied in the
// listed order.
type Block[BN any, A any, C any] struct {
	Header     Header[BN]
	Extrinsics []Extrinsic[A, C]
}
