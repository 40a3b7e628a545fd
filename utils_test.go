package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func openDB(t testing.TB) *DB {
	db, err := OpenDB()
	if err != nil {
		panic(err)
	}

	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return db
}

func createJournal(t testing.TB, db *DB, cache int) *Journal {
	journal, err := CreateJournal(db, JournalConfig{Prefix: "journal", Cache: cache})
	if err != nil {
		panic(err)
	}

	return journal
}

func receipts(numbers ...BlockNumber) []Receipt {
	list := make([]Receipt, 0, len(numbers))
	for _, number := range numbers {
		list = append(list, Receipt{
			Block: number,
			Outcomes: []Outcome{
				{Index: 0, Caller: "alice", Module: BalancesName, Call: "transfer"},
			},
		})
	}

	return list
}

func blockNumbers(list []Receipt) []BlockNumber {
	numbers := make([]BlockNumber, 0, len(list))
	for _, receipt := range list {
		numbers = append(numbers, receipt.Block)
	}

	return numbers
}
