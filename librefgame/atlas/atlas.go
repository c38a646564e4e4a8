package atlas

import (
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/refgame"
)

/***

Atlas database format:

	gAtlasStateKey => atlasState (varint sequence: vers major, vers minor, condition count per player count)

	CanonicConditionKey => notation bytes
		where CanonicConditionKey = players (byte), knowledge codes, incentive codes

The canonic key sorts all dyads before all triads, so a player-count range
scan is a simple seek from the min player count.

***/

var (
	gAtlasStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kMajorVers = 2024
	kMinorVers = 1
)

type atlasState struct {
	majorVers     int64
	minorVers     int64
	numConditions [refgame.MaxPlayers + 1]uint64
}

func (state *atlasState) Marshal(out []byte) []byte {
	var scrap [binary.MaxVarintLen64]byte
	out = append(out, scrap[:binary.PutVarint(scrap[:], state.majorVers)]...)
	out = append(out, scrap[:binary.PutVarint(scrap[:], state.minorVers)]...)
	for _, count := range state.numConditions {
		out = append(out, scrap[:binary.PutUvarint(scrap[:], count)]...)
	}
	return out
}

func (state *atlasState) Unmarshal(src []byte) error {
	var n int
	state.majorVers, n = binary.Varint(src)
	if n <= 0 {
		return refgame.ErrUnmarshal
	}
	src = src[n:]
	state.minorVers, n = binary.Varint(src)
	if n <= 0 {
		return refgame.ErrUnmarshal
	}
	src = src[n:]
	for i := range state.numConditions {
		state.numConditions[i], n = binary.Uvarint(src)
		if n <= 0 {
			return refgame.ErrUnmarshal
		}
		src = src[n:]
	}
	return nil
}

// atlas is a db wrapper for a reference-game condition catalog
type atlas struct {
	ctx        refgame.CatalogContext
	readOnly   bool
	stateDirty bool
	state      atlasState
	db         *badger.DB
}

// OpenAtlas opens a condition atlas within the given context.
//
// With no DbPathName the atlas is memory resident and lives only as long as
// the session, which is the normal notebook configuration.
func OpenAtlas(ctx refgame.CatalogContext, opts refgame.CatalogOpts) (refgame.Catalog, error) {
	at := &atlas{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(refgame.ErrBadCatalogParam, "DbPathName must be specified for a read-only atlas")
		}
		dbOpts.InMemory = true
	}

	var err error
	at.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the atlas closes
	ctx.AttachCatalog(at)

	err = at.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		at.stateDirty = true
		at.state.majorVers = kMajorVers
		at.state.minorVers = kMinorVers
	}

	if err == nil && (at.state.majorVers != kMajorVers || at.state.minorVers != kMinorVers) {
		err = errors.New("atlas version is incompatible")
	}

	if err != nil {
		at.Close()
		return nil, err
	}

	return at, nil
}

func (at *atlas) NumConditions(forPlayers byte) int64 {
	if forPlayers == 0 || int(forPlayers) >= len(at.state.numConditions) {
		return 0
	}
	return int64(at.state.numConditions[forPlayers])
}

func (at *atlas) loadState() error {
	err := at.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gAtlasStateKey)
		if err == nil {
			item.Value(func(val []byte) error {
				return at.state.Unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (at *atlas) flushState() {
	if at.stateDirty && !at.readOnly {
		err := at.db.Update(func(txn *badger.Txn) error {
			var buf [64]byte
			return txn.Set(gAtlasStateKey, at.state.Marshal(buf[:0]))
		})
		if err != nil {
			panic(err)
		}
		at.stateDirty = false
	}
}

func (at *atlas) Close() error {
	at.flushState()
	if at.db != nil {
		at.db.Close()
		at.db = nil
		at.ctx.DetachCatalog(at)
		at.ctx = nil
	}
	return nil
}

func (at *atlas) IsReadOnly() bool {
	return at.readOnly
}

// TryAddCondition adds the given condition if it doesn't already exist.
//
// If true is returned, X was not present and was added.
func (at *atlas) TryAddCondition(X refgame.ConditionState) bool {
	if at.readOnly {
		return false
	}

	var keyBuf, valBuf [refgame.MaxKeyLen]byte
	key, err := X.MarshalOut(keyBuf[:0], refgame.AsKey)
	if err != nil {
		return false
	}

	txn := at.db.NewTransaction(true)
	defer txn.Discard()

	_, err = txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, err := X.MarshalOut(valBuf[:0], refgame.AsNotation)
	if err != nil {
		return false
	}
	if err = txn.Set(key, val); err != nil {
		panic(err)
	}
	if err = txn.Commit(); err != nil {
		panic(err)
	}

	at.state.numConditions[X.Players()]++
	at.stateDirty = true
	return true
}

// Select will call onHit() with all conditions within the selector's player
// count range.  Finer selection is applied stream-side (see SelectFromCatalog).
//
// Enumeration order is the canonic key order.
func (at *atlas) Select(sel refgame.ConditionSelector, onHit refgame.OnConditionHit) {
	minPlayers := sel.Min.Players
	if minPlayers < refgame.MinPlayers {
		minPlayers = refgame.MinPlayers
	}
	minKey := [1]byte{minPlayers}

	txn := at.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
		PrefetchSize:   128,
	})
	defer it.Close()

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		curKey := it.Item().Key()

		// Stop when the player count is over the max
		if curKey[0] > sel.Max.Players {
			break
		}

		X, err := librefgame.NewConditionFromKey(curKey)
		if err != nil {
			panic(err)
		}
		onHit <- X
	}
}
