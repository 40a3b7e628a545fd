package kernel

import (
	"sync"
	"sync/atomic"
)

// ReaderConfig is used to configure a reader.
type ReaderConfig struct {
	// The first block number to read.
	Start BlockNumber

	// The channel on which receipts are sent.
	Receipts chan<- Receipt

	// The channel on which errors are sent.
	Errors chan<- error

	// The amount of receipts to fetch from the journal at once.
	Batch int

	// The store used to persist the position under the configured name. A
	// stored position ahead of the start takes precedence.
	Positions *Positions
	Name      string
}

// Reader streams the receipts of a journal in block order.
type Reader struct {
	journal  *Journal
	config   ReaderConfig
	position atomic.Uint64

	once   sync.Once
	closed chan struct{}
	done   chan struct{}
}

// NewReader will create and return a new reader.
func NewReader(journal *Journal, config ReaderConfig) *Reader {
	// set default batch
	if config.Batch <= 0 {
		config.Batch = 1
	}

	// prepare reader
	r := &Reader{
		journal: journal,
		config:  config,
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	// set initial position
	r.position.Store(config.Start)

	// run worker
	go r.worker()

	return r
}

// Position will return the block number of the next receipt to be sent.
func (r *Reader) Position() BlockNumber {
	return r.position.Load()
}

// Close will close the reader and wait for it to exit.
func (r *Reader) Close() {
	r.once.Do(func() {
		close(r.closed)
	})

	<-r.done
}

func (r *Reader) worker() {
	// signal exit
	defer close(r.done)

	// resume stored position
	if r.config.Positions != nil {
		stored, ok, err := r.config.Positions.Get(r.config.Name)
		if err != nil {
			r.fail(err)
			return
		}
		if ok && stored > r.position.Load() {
			r.position.Store(stored)
		}
	}

	// subscribe to notifications
	notifications := make(chan BlockNumber, 1)
	r.journal.Subscribe(notifications)
	defer r.journal.Unsubscribe(notifications)

	for {
		// check if closed
		select {
		case <-r.closed:
			return
		default:
		}

		// get position
		position := r.position.Load()

		// read receipts if the journal is ahead
		var list []Receipt
		if r.journal.Head() >= position {
			var err error
			list, err = r.journal.Read(position, r.config.Batch)
			if err != nil {
				r.fail(err)
				return
			}
		}

		// wait for notification if nothing is available
		if len(list) == 0 {
			select {
			case <-notifications:
			case <-r.closed:
				return
			}

			continue
		}

		// put receipts on pipe
		for _, receipt := range list {
			select {
			case r.config.Receipts <- receipt:
				r.position.Store(receipt.Block + 1)
			case <-r.closed:
				return
			}

			// persist position
			if r.config.Positions != nil {
				err := r.config.Positions.Set(r.config.Name, receipt.Block+1)
				if err != nil {
					r.fail(err)
					return
				}
			}
		}
	}
}

func (r *Reader) fail(err error) {
	select {
	case r.config.Errors <- err:
	default:
	}
}
