package refgame

import (
	"io"
)

const (

	// MinPlayers is the smallest supported game configuration (a dyad).
	MinPlayers = 2

	// MaxPlayers is the largest supported game configuration (a triad).
	// 4-player games are an open research question, not a supported topology.
	MaxPlayers = 3

	// MaxPairs is the max number of player pairs (edges) for the largest game possible.
	MaxPairs = MaxPlayers * (MaxPlayers - 1) / 2

	// MaxKeyLen is the max byte length of a canonic condition encoding.
	MaxKeyLen = 1 + MaxPlayers + MaxPairs
)

// MarshalOpts selects an output encoding for a ConditionState.
type MarshalOpts int32

const (
	// AsKey emits the canonic byte encoding used for catalog keys and dedupe sets.
	AsKey MarshalOpts = 0

	// AsNotation emits the condition expression notation, e.g. "fpn:+-0".
	AsNotation MarshalOpts = 1
)

// ConditionState is a single reference-game condition: a player count plus a
// knowledge level per player and an incentive sign per player pair.
type ConditionState interface {

	// Players returns the player count of this condition (MinPlayers..MaxPlayers).
	Players() int

	// Pairs returns the number of player pairs (edges) of this condition.
	Pairs() int

	// Knowledge returns the knowledge level of the given player (zero-based).
	Knowledge(player int) KnowledgeLevel

	// Incentive returns the incentive sign of the given player pair (zero-based, see PairEnds).
	Incentive(pair int) IncentiveSign

	// Emits every incentive-sign variant of this condition (including this one) into dst.
	PermuteIncentiveSigns(dst *ConditionStream)

	WriteAsString(out io.Writer, opts PrintOpts)
	MarshalOut(out []byte, opts MarshalOpts) ([]byte, error)

	// Returns a new copy of this instance.
	MakeCopy() ConditionState

	// Returns summary counts for this condition.
	GetInfo() ConditionInfo

	// Recycles this ConditionState instance into a pool for reuse.
	// Caller asserts that no more references to this instance will persist.
	Reclaim()
}

// PairEnds returns the zero-based player indices joined by the given pair index.
//
// Pair ordering is canonical: a dyad has the single pair AB; a triad has
// AB, BC, CA (the edge cycle of the triangle).
func PairEnds(players, pair int) (a, b int) {
	a = pair
	b = (pair + 1) % players
	return
}

// OnConditionHit is a callback chan used to return conditions meeting a set of selection criteria.
// Ownership of a ConditionState also travels through the channel.
type OnConditionHit chan<- ConditionState

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a condition Catalog.
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

type ConditionAdder interface {

	// Tries to add the given condition to this catalog.
	// If true is returned, X did not exist and was added.
	TryAddCondition(X ConditionState) bool
}

// Catalog wraps a database of canonic condition encodings.
type Catalog interface {
	ConditionAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumConditions returns the number of unique conditions in this catalog for a given player count.
	// An out of bounds player count returns 0.
	NumConditions(forPlayers byte) int64

	// Select fires the given callback with each condition that meets the selection criteria.
	Select(sel ConditionSelector, onHit OnConditionHit)

	Close() error
}

// ConditionInfo summarizes a condition's label counts.
type ConditionInfo struct {
	Players      byte
	FullK        byte // players with full knowledge
	PartialK     byte // players with partial knowledge
	NoneK        byte // players with no knowledge
	PosEdges     byte // aligned pairs
	NegEdges     byte // disaligned pairs
	NeutralEdges byte // neutral pairs
}

// ConditionSelector is an operator that either selects a given condition or not.
type ConditionSelector struct {
	Min ConditionInfo // lower select bounds
	Max ConditionInfo // upper select bounds
}

// DefaultConditionSelector selects all valid conditions.
var DefaultConditionSelector = ConditionSelector{
	Min: ConditionInfo{
		Players: MinPlayers,
	},
	Max: ConditionInfo{
		Players:      MaxPlayers,
		FullK:        MaxPlayers,
		PartialK:     MaxPlayers,
		NoneK:        MaxPlayers,
		PosEdges:     MaxPairs,
		NegEdges:     MaxPairs,
		NeutralEdges: MaxPairs,
	},
}

// SelectsCondition is a convenience function used to see if a condition is selected according to a ConditionSelector.
func (sel *ConditionSelector) SelectsCondition(X ConditionState) bool {
	info := X.GetInfo()
	if info.Players < sel.Min.Players || info.FullK < sel.Min.FullK || info.PartialK < sel.Min.PartialK || info.NoneK < sel.Min.NoneK || info.PosEdges < sel.Min.PosEdges || info.NegEdges < sel.Min.NegEdges || info.NeutralEdges < sel.Min.NeutralEdges {
		return false
	}
	if info.Players > sel.Max.Players || info.FullK > sel.Max.FullK || info.PartialK > sel.Max.PartialK || info.NoneK > sel.Max.NoneK || info.PosEdges > sel.Max.PosEdges || info.NegEdges > sel.Max.NegEdges || info.NeutralEdges > sel.Max.NeutralEdges {
		return false
	}
	return true
}

// PrintOpts specifies what is printed when printing a condition
type PrintOpts struct {
	Label    string // Prefix label
	Notation bool   // If set, prints the condition expression notation
	Labels   bool   // If set, prints expanded per-player and per-pair labels
}

var DefaultPrintOpts = PrintOpts{
	Notation: true,
}
