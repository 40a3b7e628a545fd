package kernel

import (
	"github.com/cockroachdb/pebble"

	"github.com/256dpi/kernel/seq"
)

// Positions manages the storage of named reader positions.
type Positions struct {
	db     *DB
	prefix []byte
}

// CreatePositions will create a store that keeps positions in the provided db.
func CreatePositions(db *DB, prefix string) (*Positions, error) {
	// create positions
	p := &Positions{
		db:     db,
		prefix: append([]byte(prefix), ':'),
	}

	return p, nil
}

// Set will write the specified position.
func (p *Positions) Set(name string, position BlockNumber) error {
	return p.db.Set(p.makeKey(name), seq.Encode(position), defaultWriteOptions)
}

// Get will read the specified position.
func (p *Positions) Get(name string) (BlockNumber, bool, error) {
	// get value
	value, closer, err := p.db.Get(p.makeKey(name))
	if err == pebble.ErrNotFound {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	// ensure close
	defer closer.Close()

	// decode position
	position, err := seq.Decode(value)
	if err != nil {
		return 0, false, err
	}

	return position, true, nil
}

// Delete will remove the specified position.
func (p *Positions) Delete(name string) error {
	return p.db.Delete(p.makeKey(name), defaultWriteOptions)
}

// Range will return the lowest and highest stored position.
func (p *Positions) Range() (BlockNumber, BlockNumber, bool, error) {
	// create iterator
	iter, err := p.iterate()
	if err != nil {
		return 0, 0, false, err
	}

	// ensure close
	defer iter.Close()

	// prepare range
	var min, max BlockNumber
	var found bool

	// iterate over all positions
	for iter.First(); iter.Valid(); iter.Next() {
		// decode position
		position, err := seq.Decode(iter.Value())
		if err != nil {
			return 0, 0, false, err
		}

		// update range
		if !found || position < min {
			min = position
		}
		if !found || position > max {
			max = position
		}

		found = true
	}

	return min, max, found, nil
}

// Count will return the number of stored positions.
func (p *Positions) Count() (int, error) {
	// create iterator
	iter, err := p.iterate()
	if err != nil {
		return 0, err
	}

	// ensure close
	defer iter.Close()

	// count keys
	var count int
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}

	return count, nil
}

func (p *Positions) iterate() (*pebble.Iterator, error) {
	// the upper bound is the prefix with the separator incremented
	upper := append([]byte{}, p.prefix...)
	upper[len(upper)-1]++

	return p.db.NewIter(&pebble.IterOptions{
		LowerBound: p.prefix,
		UpperBound: upper,
	})
}

func (p *Positions) makeKey(name string) []byte {
	b := make([]byte, 0, len(p.prefix)+len(name))
	return append(append(b, p.prefix...), name...)
}
