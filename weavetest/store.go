package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/tokenswap/store"
)

// LevelDBStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func LevelDBStore(t testing.TB) (db *store.LevelDB, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "tokenswap")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err = store.OpenLevelDB(dbpath)
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot open leveldb: %s", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dbpath)
	}
}
