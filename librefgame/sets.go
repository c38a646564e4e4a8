package librefgame

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/refgame-systems/gorefnet/refgame"
)

// CanonicSet allows adding canonic condition encodings and returning if an
// equivalent condition has already been added.
type CanonicSet interface {
	refgame.ConditionAdder

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAddCondition(), be sure you call Close() when you're done.
	Close()
}

func NewCanonicSet() CanonicSet {
	return &canonicSet{}
}

// NewDropDupes returns a ConditionAdder that admits each canonic condition
// exactly once, for use as a stream dedupe stage.  The backing set is
// auto-opened on first add and released on Close().
func NewDropDupes() CanonicSet {
	return &canonicSet{}
}

type canonicSet struct {
	lsmSet
}

func (set *canonicSet) TryAddCondition(X refgame.ConditionState) bool {
	var buf [refgame.MaxKeyLen]byte
	key, err := X.MarshalOut(buf[:0], refgame.AsKey)
	if err != nil {
		return false
	}
	return set.tryAdd(key)
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
