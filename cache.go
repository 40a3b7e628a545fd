package kernel

import "sync"

// Cache is a circular list to cache receipts.
type Cache struct {
	size  int
	nodes []Receipt
	head  int
	tail  int
	count int

	mutex sync.RWMutex
}

// NewCache creates and returns a new cache.
func NewCache(size int) *Cache {
	return &Cache{
		size:  size,
		nodes: make([]Receipt, size),
	}
}

// Add will add receipts to the cache. The oldest receipts are evicted once the
// cache is full.
func (q *Cache) Add(receipts ...Receipt) {
	// skip if disabled
	if q.size <= 0 {
		return
	}

	// acquire mutex
	q.mutex.Lock()
	defer q.mutex.Unlock()

	// add all receipts
	for _, receipt := range receipts {
		// remove receipt if cache is full
		if q.count == q.size {
			q.nodes[q.tail] = Receipt{}
			q.tail = q.wrap(q.tail + 1)
			q.count--
		}

		// save receipt to head
		q.nodes[q.head] = receipt
		q.count++

		// increment head
		q.head = q.wrap(q.head + 1)
	}
}

// Scan will iterate over the cached receipts from oldest to newest.
func (q *Cache) Scan(fn func(int, Receipt) bool) {
	// acquire mutex
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	// iterate through from tail to head
	for i := 0; i < q.count; i++ {
		if !fn(i, q.nodes[q.wrap(q.tail+i)]) {
			return
		}
	}
}

// Trim will remove receipts from the tail of the cache as long as the provided
// function returns true.
func (q *Cache) Trim(fn func(Receipt) bool) {
	// acquire mutex
	q.mutex.Lock()
	defer q.mutex.Unlock()

	// remove from the tail
	for q.count > 0 && fn(q.nodes[q.tail]) {
		q.nodes[q.tail] = Receipt{}
		q.tail = q.wrap(q.tail + 1)
		q.count--
	}
}

// Length will return the length of the cache.
func (q *Cache) Length() int {
	// acquire mutex
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return q.count
}

// Reset will reset the cache.
func (q *Cache) Reset() {
	// acquire mutex
	q.mutex.Lock()
	defer q.mutex.Unlock()

	// allocate a new list and reset counters
	q.nodes = make([]Receipt, q.size)
	q.head = 0
	q.tail = 0
	q.count = 0
}

func (q *Cache) wrap(i int) int {
	// subtract size if is greater than size
	if i >= q.size {
		return i - q.size
	}

	return i
}
