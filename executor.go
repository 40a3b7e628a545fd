package kernel

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// ErrExecutorClosed is passed to pending acks if the executor has been
// closed before their block was executed.
var ErrExecutorClosed = errors.New("executor closed")

type job struct {
	block *Block
	ack   func(Receipt, error)
	view  func(*Runtime)
	done  chan struct{}
}

// ExecutorConfig is used to configure an executor.
type ExecutorConfig struct {
	// The amount of blocks that may be queued before Submit blocks.
	Backlog int

	// The logger used to report execution failures. Defaults to a disabled
	// logger.
	Logger *zerolog.Logger
}

// Executor owns a runtime and executes submitted blocks one after another on
// a single goroutine. Reads of the runtime state must go through View.
type Executor struct {
	runtime *Runtime
	config  ExecutorConfig
	logger  zerolog.Logger
	pipe    chan job
	mutex   sync.RWMutex
	once    sync.Once
	tomb    tomb.Tomb
}

// NewExecutor will create and return an executor. The runtime must not be
// used directly afterwards.
func NewExecutor(runtime *Runtime, config ExecutorConfig) *Executor {
	// prepare logger
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	// prepare executor
	e := &Executor{
		runtime: runtime,
		config:  config,
		logger:  logger,
		pipe:    make(chan job, config.Backlog),
	}

	// run worker
	e.tomb.Go(e.worker)

	return e
}

// Submit will queue the block for execution and call the provided callback
// with the result. It returns false if the executor has been closed.
func (e *Executor) Submit(block Block, ack func(Receipt, error)) bool {
	return e.queue(job{
		block: &block,
		ack:   ack,
	})
}

// View will run fn with the runtime after all previously submitted blocks
// have been executed. It returns false if the executor has been closed.
func (e *Executor) View(fn func(*Runtime)) bool {
	// queue view
	done := make(chan struct{})
	ok := e.queue(job{
		view: fn,
		done: done,
	})
	if !ok {
		return false
	}

	// await completion
	select {
	case <-done:
		return true
	case <-e.tomb.Dead():
		// the view may have run just before exiting
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

func (e *Executor) queue(j job) bool {
	// check if closed
	select {
	case <-e.tomb.Dying():
		return false
	default:
	}

	// acquire mutex
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	// check again as the pipe may have been closed meanwhile
	select {
	case <-e.tomb.Dying():
		return false
	default:
	}

	// queue job
	select {
	case e.pipe <- j:
		return true
	case <-e.tomb.Dying():
		return false
	}
}

// Close will close the executor. Queued blocks that have not been executed
// are acknowledged with ErrExecutorClosed.
func (e *Executor) Close() {
	// kill tomb
	e.tomb.Kill(nil)

	// close pipe
	e.once.Do(func() {
		e.mutex.Lock()
		close(e.pipe)
		e.mutex.Unlock()
	})

	// wait for exit
	_ = e.tomb.Wait()

	// fail remaining jobs
	for j := range e.pipe {
		if j.ack != nil {
			j.ack(Receipt{}, ErrExecutorClosed)
		}
	}
}

func (e *Executor) worker() error {
	for {
		// await next job
		var j job
		select {
		case next, ok := <-e.pipe:
			// return if pipe has been closed
			if !ok {
				return tomb.ErrDying
			}

			j = next
		case <-e.tomb.Dying():
			return tomb.ErrDying
		}

		// run view
		if j.view != nil {
			j.view(e.runtime)
			close(j.done)
			continue
		}

		// execute block
		receipt, err := e.runtime.ExecuteBlock(*j.block)
		if err != nil {
			e.logger.Error().
				Err(err).
				Uint64("block", j.block.Header.BlockNumber).
				Msg("block rejected")
		}

		// call ack
		if j.ack != nil {
			j.ack(receipt, err)
		}
	}
}
