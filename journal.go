package kernel

import (
	"encoding/json"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/256dpi/kernel/seq"
)

// ErrNotMonotonic is returned if a receipt does not follow the journal head.
var ErrNotMonotonic = errors.New("receipts not monotonic")

// JournalConfig is used to configure a journal.
type JournalConfig struct {
	// The prefix for all journal keys.
	Prefix string

	// The amount of recent receipts kept in memory.
	Cache int
}

// Journal manages the storage of block receipts ordered by block number.
type Journal struct {
	db     *DB
	config JournalConfig
	prefix []byte
	cache  *Cache

	receivers sync.Map

	length int
	head   BlockNumber
	tail   BlockNumber
	mutex  sync.Mutex
}

// CreateJournal will create a journal that stores receipts in the provided db.
func CreateJournal(db *DB, config JournalConfig) (*Journal, error) {
	// create journal
	j := &Journal{
		db:     db,
		config: config,
		prefix: append([]byte(config.Prefix), ':'),
		cache:  NewCache(config.Cache),
	}

	// init journal
	err := j.init()
	if err != nil {
		return nil, err
	}

	return j, nil
}

func (j *Journal) init() error {
	// create iterator
	iter, err := j.iterate()
	if err != nil {
		return err
	}

	// count all receipts and find tail and head
	var length int
	var first, last BlockNumber
	for iter.First(); iter.Valid(); iter.Next() {
		// parse key
		number, err := j.parseKey(iter.Key())
		if err != nil {
			_ = iter.Close()
			return err
		}

		// set first
		if length == 0 {
			first = number
		}

		// set last and increment length
		last = number
		length++
	}

	// close iterator
	err = iter.Close()
	if err != nil {
		return err
	}

	// set length, head and tail
	j.length = length
	j.head = last
	if first > 0 {
		j.tail = first - 1
	}

	return nil
}

// Write will write the specified receipts to the journal. The receipts must
// be ordered and follow the current head. No receipt has been written if an
// error is returned.
func (j *Journal) Write(receipts ...Receipt) error {
	// acquire mutex
	j.mutex.Lock()
	defer j.mutex.Unlock()

	// prepare batch
	batch := j.db.NewBatch()
	defer batch.Close()

	// add all receipts
	head := j.head
	for _, receipt := range receipts {
		// check order
		if receipt.Block <= head {
			return errors.Wrapf(ErrNotMonotonic, "block %d after %d", receipt.Block, head)
		}
		head = receipt.Block

		// encode receipt
		value, err := json.Marshal(receipt)
		if err != nil {
			return err
		}

		// add receipt
		err = batch.Set(j.makeKey(receipt.Block), value, nil)
		if err != nil {
			return err
		}
	}

	// commit batch
	err := batch.Commit(defaultWriteOptions)
	if err != nil {
		return err
	}

	// update length and head
	j.length += len(receipts)
	j.head = head

	// cache receipts as they would be read from the db
	for _, receipt := range receipts {
		j.cache.Add(receipt.detach())
	}

	// send notifications to all receivers and skip full receivers
	j.receivers.Range(func(_, value interface{}) bool {
		select {
		case value.(chan<- BlockNumber) <- head:
		default:
		}

		return true
	})

	return nil
}

// Read will read receipts from and including the specified block number up
// to the requested amount of receipts.
func (j *Journal) Read(from BlockNumber, amount int) ([]Receipt, error) {
	// check amount
	if amount <= 0 {
		return nil, nil
	}

	// prepare list
	list := make([]Receipt, 0, amount)

	// attempt to read from cache
	if j.readCache(from, amount, &list) {
		return list, nil
	}

	// create iterator
	iter, err := j.iterate()
	if err != nil {
		return nil, err
	}

	// read receipts
	for iter.SeekGE(j.makeKey(from)); iter.Valid() && len(list) < amount; iter.Next() {
		// decode receipt
		var receipt Receipt
		err = json.Unmarshal(iter.Value(), &receipt)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}

		// add receipt
		list = append(list, receipt)
	}

	// close iterator
	err = iter.Close()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (j *Journal) readCache(from BlockNumber, amount int, list *[]Receipt) bool {
	// acquire mutex to keep writes from evicting receipts during the scan
	j.mutex.Lock()
	defer j.mutex.Unlock()

	// get lengths
	length := j.length
	cached := j.cache.Length()

	// the cache can serve the read if it holds all receipts or the oldest
	// cached receipt is not after the requested block
	var ok bool
	j.cache.Scan(func(i int, receipt Receipt) bool {
		// check first receipt
		if i == 0 {
			ok = cached == length || receipt.Block <= from
			if !ok {
				return false
			}
		}

		// add receipt if requested
		if receipt.Block >= from {
			*list = append(*list, receipt)
		}

		return len(*list) < amount
	})

	return ok
}

// Get will read the receipt of the specified block.
func (j *Journal) Get(number BlockNumber) (Receipt, bool, error) {
	// get value
	value, closer, err := j.db.Get(j.makeKey(number))
	if err == pebble.ErrNotFound {
		return Receipt{}, false, nil
	} else if err != nil {
		return Receipt{}, false, err
	}

	// ensure close
	defer closer.Close()

	// decode receipt
	var receipt Receipt
	err = json.Unmarshal(value, &receipt)
	if err != nil {
		return Receipt{}, false, err
	}

	return receipt, true, nil
}

// Delete will remove all receipts up to and including the specified block
// number from the journal. It returns the number of deleted receipts.
func (j *Journal) Delete(number BlockNumber) (int, error) {
	// acquire mutex
	j.mutex.Lock()
	defer j.mutex.Unlock()

	// create iterator
	iter, err := j.iterate()
	if err != nil {
		return 0, err
	}

	// prepare batch
	batch := j.db.NewBatch()
	defer batch.Close()

	// delete all receipts up to the needle
	needle := j.makeKey(number)
	var counter int
	for iter.First(); iter.Valid() && string(iter.Key()) <= string(needle); iter.Next() {
		// delete receipt
		err = batch.Delete(iter.Key(), nil)
		if err != nil {
			_ = iter.Close()
			return 0, err
		}

		// increment counter
		counter++
	}

	// close iterator
	err = iter.Close()
	if err != nil {
		return 0, err
	}

	// commit batch
	err = batch.Commit(defaultWriteOptions)
	if err != nil {
		return 0, err
	}

	// update length and tail
	j.length -= counter
	if number > j.tail {
		j.tail = number
	}

	// reset cache if empty, otherwise trim
	if j.length == 0 {
		j.cache.Reset()
	} else {
		j.cache.Trim(func(receipt Receipt) bool {
			return receipt.Block <= number
		})
	}

	return counter, nil
}

// Index will return the block number of the receipt at the specified index.
// Positive indexes count from the oldest receipt, negative indexes from the
// newest receipt where -1 is the head.
func (j *Journal) Index(index int) (BlockNumber, bool, error) {
	// create iterator
	iter, err := j.iterate()
	if err != nil {
		return 0, false, err
	}

	// walk to the index
	var valid bool
	if index >= 0 {
		valid = iter.First()
		for i := 0; valid && i < index; i++ {
			valid = iter.Next()
		}
	} else {
		valid = iter.Last()
		for i := -1; valid && i > index; i-- {
			valid = iter.Prev()
		}
	}

	// parse key
	var number BlockNumber
	if valid {
		number, err = j.parseKey(iter.Key())
		if err != nil {
			_ = iter.Close()
			return 0, false, err
		}
	}

	// close iterator
	err = iter.Close()
	if err != nil {
		return 0, false, err
	}

	return number, valid, nil
}

// Length will return the number of stored receipts.
func (j *Journal) Length() int {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.length
}

// Head will return the block number of the newest receipt.
func (j *Journal) Head() BlockNumber {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.head
}

// Tail will return the block number of the last deleted receipt.
func (j *Journal) Tail() BlockNumber {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.tail
}

// Subscribe will subscribe the specified channel to changes of the journal
// head. Notifications will be skipped if the specified channel is not
// writable for some reason.
func (j *Journal) Subscribe(receiver chan<- BlockNumber) {
	j.receivers.Store(receiver, receiver)
}

// Unsubscribe will remove a previously subscribed receiver.
func (j *Journal) Unsubscribe(receiver chan<- BlockNumber) {
	j.receivers.Delete(receiver)
}

func (j *Journal) iterate() (*pebble.Iterator, error) {
	// compute upper bound
	upper := append([]byte(j.config.Prefix), ':'+1)

	return j.db.NewIter(&pebble.IterOptions{
		LowerBound: j.prefix,
		UpperBound: upper,
	})
}

func (j *Journal) makeKey(number BlockNumber) []byte {
	b := make([]byte, 0, len(j.prefix)+seq.EncodedLength)
	return append(append(b, j.prefix...), seq.Encode(number)...)
}

func (j *Journal) parseKey(key []byte) (BlockNumber, error) {
	return seq.Decode(key[len(j.prefix):])
}
