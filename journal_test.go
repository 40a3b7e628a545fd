package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJournal(t *testing.T) {
	for _, size := range []int{0, 2, 10} {
		db := openDB(t)

		// open

		journal := createJournal(t, db, size)
		assert.NotNil(t, journal)

		ch := make(chan BlockNumber, 10)
		journal.Subscribe(ch)

		assert.Equal(t, 0, journal.Length())
		assert.Equal(t, BlockNumber(0), journal.Head())
		assert.Equal(t, BlockNumber(0), journal.Tail())

		list, err := journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Empty(t, list)

		// write single

		err = journal.Write(receipts(1)...)
		assert.NoError(t, err)
		assert.Equal(t, BlockNumber(1), <-ch)

		list, err = journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Equal(t, receipts(1), list)

		assert.Equal(t, 1, journal.Length())
		assert.Equal(t, BlockNumber(1), journal.Head())
		assert.Equal(t, BlockNumber(0), journal.Tail())

		// write multiple with a gap

		err = journal.Write(receipts(2, 3, 5)...)
		assert.NoError(t, err)
		assert.Equal(t, BlockNumber(5), <-ch)

		list, err = journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Equal(t, receipts(1, 2, 3, 5), list, "cache %d", size)

		assert.Equal(t, 4, journal.Length())
		assert.Equal(t, BlockNumber(5), journal.Head())

		// read partial

		list, err = journal.Read(2, 2)
		assert.NoError(t, err)
		assert.Equal(t, []BlockNumber{2, 3}, blockNumbers(list), "cache %d", size)

		list, err = journal.Read(4, 10)
		assert.NoError(t, err)
		assert.Equal(t, []BlockNumber{5}, blockNumbers(list), "cache %d", size)

		list, err = journal.Read(6, 10)
		assert.NoError(t, err)
		assert.Empty(t, list)

		list, err = journal.Read(1, 0)
		assert.NoError(t, err)
		assert.Empty(t, list)

		// get

		receipt, ok, err := journal.Get(3)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, receipts(3)[0], receipt)

		_, ok, err = journal.Get(4)
		assert.NoError(t, err)
		assert.False(t, ok)

		// index

		number, ok, err := journal.Index(0)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, BlockNumber(1), number)

		number, ok, err = journal.Index(-1)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, BlockNumber(5), number)

		number, ok, err = journal.Index(-2)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, BlockNumber(3), number)

		_, ok, err = journal.Index(4)
		assert.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = journal.Index(-5)
		assert.NoError(t, err)
		assert.False(t, ok)

		// reject stale receipts

		err = journal.Write(receipts(5)...)
		assert.ErrorIs(t, err, ErrNotMonotonic)

		err = journal.Write(receipts(7, 6)...)
		assert.ErrorIs(t, err, ErrNotMonotonic)
		assert.Equal(t, 4, journal.Length())
		assert.Equal(t, BlockNumber(5), journal.Head())

		// delete one

		n, err := journal.Delete(1)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		list, err = journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Equal(t, []BlockNumber{2, 3, 5}, blockNumbers(list), "cache %d", size)
		assert.Equal(t, 3, journal.Length())
		assert.Equal(t, BlockNumber(1), journal.Tail())

		// delete multiple

		n, err = journal.Delete(4)
		assert.NoError(t, err)
		assert.Equal(t, 2, n)

		list, err = journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Equal(t, []BlockNumber{5}, blockNumbers(list), "cache %d", size)
		assert.Equal(t, 1, journal.Length())
		assert.Equal(t, BlockNumber(5), journal.Head())
		assert.Equal(t, BlockNumber(4), journal.Tail())

		// delete all

		n, err = journal.Delete(5)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 0, journal.Length())

		list, err = journal.Read(0, 10)
		assert.NoError(t, err)
		assert.Empty(t, list)

		journal.Unsubscribe(ch)
	}
}

func TestJournalReopen(t *testing.T) {
	db := openDB(t)

	journal := createJournal(t, db, 0)
	err := journal.Write(receipts(3, 4, 8)...)
	assert.NoError(t, err)

	other, err := CreateJournal(db, JournalConfig{Prefix: "other"})
	assert.NoError(t, err)
	assert.Equal(t, 0, other.Length())

	journal = createJournal(t, db, 0)
	assert.Equal(t, 3, journal.Length())
	assert.Equal(t, BlockNumber(8), journal.Head())
	assert.Equal(t, BlockNumber(2), journal.Tail())
}

func TestJournalDetachesErrors(t *testing.T) {
	db := openDB(t)
	journal := createJournal(t, db, 10)

	receipt := Receipt{
		Block: 1,
		Outcomes: []Outcome{
			{Index: 0, Caller: "bob", Module: ClaimsName, Call: "create_claim", Error: "claim already exists", Err: assert.AnError},
		},
	}

	err := journal.Write(receipt)
	assert.NoError(t, err)
	assert.Equal(t, assert.AnError, receipt.Outcomes[0].Err)

	list, err := journal.Read(1, 1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Nil(t, list[0].Outcomes[0].Err)
	assert.Equal(t, "claim already exists", list[0].Outcomes[0].Error)
	assert.Equal(t, 1, list[0].Failures())
}

func BenchmarkJournalWrite(b *testing.B) {
	db := openDB(b)
	journal := createJournal(b, db, 100)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 1; i <= b.N; i++ {
		err := journal.Write(receipts(BlockNumber(i))...)
		if err != nil {
			panic(err)
		}
	}
}

func TestJournalReadDuringWrites(t *testing.T) {
	for round := 0; round < 200; round++ {
		db := openDB(t)
		journal := createJournal(t, db, 4)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 1; i <= 8; i++ {
				err := journal.Write(receipts(BlockNumber(i))...)
				if err != nil {
					panic(err)
				}
			}
		}()

		for running := true; running; {
			select {
			case <-done:
				running = false
			default:
			}

			list, err := journal.Read(1, 100)
			assert.NoError(t, err)

			// the list must be gapless from the first block
			for i, receipt := range list {
				if !assert.Equal(t, BlockNumber(i+1), receipt.Block, "round %d", round) {
					return
				}
			}
		}

		list, err := journal.Read(1, 100)
		assert.NoError(t, err)
		assert.Equal(t, []BlockNumber{1, 2, 3, 4, 5, 6, 7, 8}, blockNumbers(list))
	}
}

func TestJournalDeleteResetsCache(t *testing.T) {
	db := openDB(t)
	journal := createJournal(t, db, 4)

	err := journal.Write(receipts(1, 2, 3)...)
	assert.NoError(t, err)
	assert.Equal(t, 3, journal.cache.Length())

	n, err := journal.Delete(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, journal.cache.Length())

	err = journal.Write(receipts(4, 5)...)
	assert.NoError(t, err)

	list, err := journal.Read(0, 10)
	assert.NoError(t, err)
	assert.Equal(t, []BlockNumber{4, 5}, blockNumbers(list))
	assert.Equal(t, 2, journal.cache.Length())
}
