package kernel

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/256dpi/kernel/balances"
	"github.com/256dpi/kernel/claims"
	"github.com/256dpi/kernel/support"
)

// ErrUnknownModule is returned if an encoded call names an unknown module.
var ErrUnknownModule = errors.New("unknown module")

// Envelope is the untyped wire form of a call.
type Envelope struct {
	Module string          `json:"module"`
	Call   string          `json:"call"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// TransferArgs are the arguments of the balances transfer call.
type TransferArgs struct {
	To     AccountID `json:"to" yaml:"to"`
	Amount Balance   `json:"amount" yaml:"amount"`
}

// ClaimArgs are the arguments of the claims calls.
type ClaimArgs struct {
	Key ClaimKey `json:"key" yaml:"key"`
}

// DecodeCall will construct the typed call named by module and call. The
// provided function is used to decode the call arguments into the argument
// struct of the call.
func DecodeCall(module, call string, args func(interface{}) error) (Call, error) {
	switch module {
	case BalancesName:
		switch call {
		case balances.Transfer[AccountID, Balance]{}.Name():
			// decode arguments
			var ta TransferArgs
			err := args(&ta)
			if err != nil {
				return nil, errors.Wrapf(err, "%s/%s", module, call)
			}

			return Transfer(ta.To, ta.Amount), nil
		}
	case ClaimsName:
		// decode arguments
		var ca ClaimArgs
		decode := func() error {
			err := args(&ca)
			if err != nil {
				return errors.Wrapf(err, "%s/%s", module, call)
			}

			return nil
		}

		switch call {
		case claims.Create[ClaimKey]{}.Name():
			err := decode()
			if err != nil {
				return nil, err
			}

			return CreateClaim(ca.Key), nil
		case claims.Revoke[ClaimKey]{}.Name():
			err := decode()
			if err != nil {
				return nil, err
			}

			return RevokeClaim(ca.Key), nil
		}
	default:
		return nil, errors.Wrap(ErrUnknownModule, module)
	}

	return nil, errors.Wrapf(support.ErrUnknownCall, "%s/%s", module, call)
}

// EncodeCall will return the envelope of the specified call.
func EncodeCall(call Call) (Envelope, error) {
	// prepare args
	var args interface{}
	switch c := call.(type) {
	case BalancesCall:
		switch cc := c.Call.(type) {
		case balances.Transfer[AccountID, Balance]:
			args = TransferArgs{To: cc.To, Amount: cc.Amount}
		}
	case ClaimsCall:
		switch cc := c.Call.(type) {
		case claims.Create[ClaimKey]:
			args = ClaimArgs{Key: cc.Key}
		case claims.Revoke[ClaimKey]:
			args = ClaimArgs{Key: cc.Key}
		}
	}

	// check args
	if args == nil {
		return Envelope{}, support.ErrUnknownCall
	}

	// encode args
	raw, err := json.Marshal(args)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Module: call.Module(),
		Call:   call.Name(),
		Args:   raw,
	}, nil
}

// MarshalCall will encode the call as a JSON envelope.
func MarshalCall(call Call) ([]byte, error) {
	// get envelope
	env, err := EncodeCall(call)
	if err != nil {
		return nil, err
	}

	return json.Marshal(env)
}

// UnmarshalCall will decode a call from a JSON envelope.
func UnmarshalCall(data []byte) (Call, error) {
	// decode envelope
	var env Envelope
	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil, errors.Wrap(err, "envelope")
	}

	return DecodeCall(env.Module, env.Call, func(v interface{}) error {
		// missing arguments decode to zero values
		if len(env.Args) == 0 {
			return nil
		}

		return json.Unmarshal(env.Args, v)
	})
}
