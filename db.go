package kernel

import (
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var defaultWriteOptions = pebble.NoSync

// DB is a generic database.
type DB = pebble.DB

// OpenDB will open a database backed by an in-memory filesystem. Its contents
// are lost once the database is closed.
func OpenDB() (*DB, error) {
	// open db
	db, err := pebble.Open("", &pebble.Options{
		FS: vfs.NewMem(),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}
