package kernel

import (
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/256dpi/kernel/balances"
	"github.com/256dpi/kernel/claims"
	"github.com/256dpi/kernel/support"
	"github.com/256dpi/kernel/system"
)

// ErrBlockNumberMismatch is returned if the declared height of a block does
// not match the height the runtime advanced to.
var ErrBlockNumberMismatch = errors.New("block number mismatch")

// RuntimeConfig is used to configure a runtime.
type RuntimeConfig struct {
	// The journal receipts of executed blocks are written to.
	Journal *Journal

	// The logger used to report block execution. Defaults to a disabled
	// logger.
	Logger *zerolog.Logger
}

// Runtime owns one instance of every module and routes calls to them. A
// runtime is not safe for concurrent use, see Executor.
type Runtime struct {
	System   *SystemModule
	Balances *BalancesModule
	Claims   *ClaimsModule

	config RuntimeConfig
	logger zerolog.Logger
}

var _ support.Dispatcher[AccountID, Call] = (*Runtime)(nil)

// NewRuntime will create and return a runtime with empty modules.
func NewRuntime(config RuntimeConfig) *Runtime {
	// prepare logger
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Runtime{
		System:   system.New[AccountID, BlockNumber, Nonce](),
		Balances: balances.New[AccountID, Balance](),
		Claims:   claims.New[AccountID, ClaimKey](),
		config:   config,
		logger:   logger,
	}
}

// Dispatch will route the call to the owning module and apply it on behalf of
// the caller. The module error is returned unchanged.
func (r *Runtime) Dispatch(caller AccountID, call Call) error {
	switch c := call.(type) {
	case BalancesCall:
		return r.Balances.Dispatch(caller, c.Call)
	case ClaimsCall:
		return r.Claims.Dispatch(caller, c.Call)
	default:
		return support.ErrUnknownCall
	}
}

// ExecuteBlock will advance the block number and apply all extrinsics of the
// block in order. The nonce of every caller is incremented before its call is
// dispatched, regardless of the outcome. Failed extrinsics are logged and
// recorded in the returned receipt but do not abort the block.
//
// If the declared block number does not match, ErrBlockNumberMismatch is
// returned and no extrinsic is applied. The block number stays incremented.
func (r *Runtime) ExecuteBlock(block Block) (Receipt, error) {
	// advance block number
	r.System.IncrementBlockNumber()

	// check block number
	number := r.System.BlockNumber()
	if block.Header.BlockNumber != number {
		r.logger.Error().
			Uint64("block", number).
			Uint64("declared", block.Header.BlockNumber).
			Msg("block number mismatch")
		return Receipt{}, errors.Wrapf(ErrBlockNumberMismatch, "expected %d, got %d", number, block.Header.BlockNumber)
	}

	// prepare receipt
	receipt := Receipt{
		Block:    number,
		Outcomes: make([]Outcome, 0, len(block.Extrinsics)),
	}

	// apply extrinsics
	for i, ext := range block.Extrinsics {
		receipt.Outcomes = append(receipt.Outcomes, r.apply(number, i, ext))
	}

	r.logger.Debug().
		Uint64("block", number).
		Int("extrinsics", len(receipt.Outcomes)).
		Int("failures", receipt.Failures()).
		Msg("block executed")

	// write receipt
	if r.config.Journal != nil {
		err := r.config.Journal.Write(receipt)
		if err != nil {
			return receipt, errors.Wrap(err, "journal")
		}
	}

	return receipt, nil
}

func (r *Runtime) apply(number BlockNumber, index int, ext Extrinsic) Outcome {
	// prepare outcome
	outcome := Outcome{
		Index:  index,
		Caller: ext.Caller,
	}
	if ext.Call != nil {
		outcome.Module = ext.Call.Module()
		outcome.Call = ext.Call.Name()
	}

	// increment nonce first, then dispatch
	err := r.System.IncrementNonce(ext.Caller)
	if err != nil {
		outcome.Module = SystemName
		outcome.Call = ""
	} else {
		err = r.Dispatch(ext.Caller, ext.Call)
	}

	// report failure
	if err != nil {
		outcome.Err = err
		outcome.Error = err.Error()

		r.logger.Warn().
			Err(err).
			Uint64("block", number).
			Int("extrinsic", index).
			Str("caller", ext.Caller).
			Str("module", outcome.Module).
			Str("call", outcome.Call).
			Msg("extrinsic failed")
	}

	return outcome
}

// State is a point in time copy of all module state.
type State struct {
	BlockNumber BlockNumber
	Nonces      map[AccountID]Nonce
	Balances    map[AccountID]Balance
	Claims      map[ClaimKey]AccountID
}

// State will return a copy of the current module state.
func (r *Runtime) State() State {
	// prepare state
	state := State{
		BlockNumber: r.System.BlockNumber(),
		Nonces:      map[AccountID]Nonce{},
		Balances:    map[AccountID]Balance{},
		Claims:      map[ClaimKey]AccountID{},
	}

	// copy nonces
	r.System.Scan(func(who AccountID, nonce Nonce) bool {
		state.Nonces[who] = nonce
		return true
	})

	// copy balances
	r.Balances.Scan(func(who AccountID, balance Balance) bool {
		state.Balances[who] = balance
		return true
	})

	// copy claims
	r.Claims.Scan(func(key ClaimKey, owner AccountID) bool {
		state.Claims[key] = owner
		return true
	})

	return state
}

// String will return a formatted dump of the module state.
func (r *Runtime) String() string {
	return pretty.Sprint(r.State())
}
