package kernel

import (
	"time"

	"gopkg.in/tomb.v2"
)

// CleanerConfig is used to configure a cleaner.
type CleanerConfig struct {
	// The amount of receipts to keep available in the journal.
	Retention int

	// The interval of cleanings.
	Interval time.Duration

	// The readers whose unread receipts must be kept.
	Readers []*Reader

	// The stores whose lowest position must be kept.
	Positions []*Positions

	// The amount of receipts after which unread receipts are deleted
	// regardless of reader positions. Zero disables the threshold.
	Threshold int

	// The callback used to yield errors.
	Errors func(error)
}

// Cleaner will periodically delete receipts from a journal honoring the
// configured retention and the positions of the specified readers and stores.
// Failed cleanings are retried and the errors yielded to the configured
// callback.
type Cleaner struct {
	journal *Journal
	config  CleanerConfig

	tomb tomb.Tomb
}

// NewCleaner will create and return a new cleaner.
func NewCleaner(journal *Journal, config CleanerConfig) *Cleaner {
	// check interval
	if config.Interval <= 0 {
		panic("kernel: missing interval")
	}

	// prepare cleaner
	c := &Cleaner{
		journal: journal,
		config:  config,
	}

	// run worker
	c.tomb.Go(c.worker)

	return c
}

// Close will close the cleaner.
func (c *Cleaner) Close() {
	c.tomb.Kill(nil)
	_ = c.tomb.Wait()
}

func (c *Cleaner) worker() error {
	for {
		// wait for trigger or close
		select {
		case <-time.After(c.config.Interval):
		case <-c.tomb.Dying():
			return tomb.ErrDying
		}

		// perform clean
		err := c.clean()
		if err != nil && c.config.Errors != nil {
			c.config.Errors(err)
		}
	}
}

func (c *Cleaner) clean() error {
	// skip if journal is empty or smaller than the retention
	if c.journal.Length() <= c.config.Retention {
		return nil
	}

	// get position honoring the retention
	position, ok, err := c.journal.Index(-(c.config.Retention + 1))
	if err != nil {
		return err
	}

	// abort clean if position has not been found
	if !ok {
		return nil
	}

	// prefetch threshold position
	var threshold BlockNumber
	if c.config.Threshold > 0 {
		threshold, ok, err = c.journal.Index(-(c.config.Threshold + 1))
		if err != nil {
			return err
		} else if !ok {
			threshold = 0
		}
	}

	// collect next positions
	var next []BlockNumber
	for _, reader := range c.config.Readers {
		next = append(next, reader.Position())
	}
	for _, positions := range c.config.Positions {
		lowest, _, ok, err := positions.Range()
		if err != nil {
			return err
		} else if ok {
			next = append(next, lowest)
		}
	}

	// keep receipts that have not yet been read
	for _, n := range next {
		if n <= position {
			position = n
			if position > 0 {
				position--
			}
		}
	}

	// honor threshold
	if threshold > 0 && position < threshold {
		position = threshold
	}

	// nothing before the first journal entry can be deleted
	if position == 0 {
		return nil
	}

	// delete receipts up to and including the calculated position
	_, err = c.journal.Delete(position)
	if err != nil {
		return err
	}

	return nil
}
