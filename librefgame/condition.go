package librefgame

import (
	"fmt"
	"io"
	"sync"

	"github.com/refgame-systems/gorefnet/refgame"
)

func NewCondition(Xsrc *Condition) *Condition {
	X := conditionPool.Get().(*Condition)
	X.Init(Xsrc)
	return X
}

// NewConditionFromKey reconstructs a condition from its canonic byte encoding.
func NewConditionFromKey(key []byte) (*Condition, error) {
	X := conditionPool.Get().(*Condition)
	err := X.InitFromKey(key)
	if err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

var conditionPool = sync.Pool{
	New: func() interface{} {
		return new(Condition)
	},
}

// Condition is a single reference-game condition: a knowledge level per
// player and an incentive sign per player pair.  Instances are pooled and
// travel through ConditionStreams with single ownership.
type Condition struct {
	players   int
	knowledge [refgame.MaxPlayers]refgame.KnowledgeLevel
	signs     [refgame.MaxPairs]refgame.IncentiveSign
}

func (X *Condition) Init(Xsrc *Condition) {
	if Xsrc == nil {
		*X = Condition{}
	} else {
		*X = *Xsrc
	}
}

// InitFromLabels sets this condition from expanded label slices.
// len(knowledge) determines the player count and must be MinPlayers..MaxPlayers;
// len(signs) must match the implied pair count.
func (X *Condition) InitFromLabels(knowledge []refgame.KnowledgeLevel, signs []refgame.IncentiveSign) error {
	players := len(knowledge)
	if players < refgame.MinPlayers || players > refgame.MaxPlayers {
		return refgame.ErrBadPlayerCount
	}
	if len(signs) != pairCount(players) {
		return refgame.ErrIncentiveLen
	}

	X.Init(nil)
	X.players = players
	copy(X.knowledge[:], knowledge)
	copy(X.signs[:], signs)
	return nil
}

// InitFromCodes sets this condition from raw notation code strings,
// e.g. ("fpn", "+-0").  Unrecognized codes fall back per the label tables.
func (X *Condition) InitFromCodes(knowledge, incentives string) error {
	return X.InitFromLabels(refgame.ExpandKnowledge(knowledge), refgame.ExpandIncentives(incentives))
}

// InitFromKey is the inverse of MarshalOut(AsKey).
func (X *Condition) InitFromKey(key []byte) error {
	if len(key) < 1 {
		return refgame.ErrUnmarshal
	}
	players := int(key[0])
	if players < refgame.MinPlayers || players > refgame.MaxPlayers {
		return refgame.ErrUnmarshal
	}
	pairs := pairCount(players)
	if len(key) != 1+players+pairs {
		return refgame.ErrUnmarshal
	}

	X.Init(nil)
	X.players = players
	for i := 0; i < players; i++ {
		X.knowledge[i] = refgame.KnowledgeOfCode(key[1+i])
	}
	for i := 0; i < pairs; i++ {
		X.signs[i] = refgame.SignOfCode(key[1+players+i])
	}
	return nil
}

func pairCount(players int) int {
	return players * (players - 1) / 2
}

func (X *Condition) Players() int {
	return X.players
}

func (X *Condition) Pairs() int {
	return pairCount(X.players)
}

func (X *Condition) Knowledge(player int) refgame.KnowledgeLevel {
	return X.knowledge[player]
}

func (X *Condition) Incentive(pair int) refgame.IncentiveSign {
	return X.signs[pair]
}

func (X *Condition) GetInfo() refgame.ConditionInfo {
	info := refgame.ConditionInfo{
		Players: byte(X.players),
	}
	for _, k := range X.knowledge[:X.players] {
		switch k {
		case refgame.KnowFull:
			info.FullK++
		case refgame.KnowPartial:
			info.PartialK++
		default:
			info.NoneK++
		}
	}
	for _, s := range X.signs[:X.Pairs()] {
		switch s {
		case refgame.IncentiveAligned:
			info.PosEdges++
		case refgame.IncentiveDisalign:
			info.NegEdges++
		default:
			info.NeutralEdges++
		}
	}
	return info
}

func (X *Condition) MakeCopy() refgame.ConditionState {
	return NewCondition(X)
}

func (X *Condition) Reclaim() {
	if X != nil {
		conditionPool.Put(X)
	}
}

// MarshalOut appends the requested encoding of this condition to out.
//
// The AsKey encoding orders fields so that, lexicographically, all dyads sort
// before all triads, then by knowledge codes, then by incentive codes.
func (X *Condition) MarshalOut(out []byte, opts refgame.MarshalOpts) ([]byte, error) {
	if X.players < refgame.MinPlayers || X.players > refgame.MaxPlayers {
		return nil, refgame.ErrBadPlayerCount
	}

	switch opts {
	case refgame.AsKey:
		out = append(out, byte(X.players))
		for _, k := range X.knowledge[:X.players] {
			out = append(out, k.Code())
		}
		for _, s := range X.signs[:X.Pairs()] {
			out = append(out, s.Code())
		}
	case refgame.AsNotation:
		for _, k := range X.knowledge[:X.players] {
			out = append(out, k.Code())
		}
		out = append(out, ':')
		for _, s := range X.signs[:X.Pairs()] {
			out = append(out, s.Code())
		}
	default:
		return nil, refgame.ErrBadCatalogParam
	}
	return out, nil
}

func (X *Condition) WriteAsString(out io.Writer, opts refgame.PrintOpts) {
	if opts.Notation {
		var buf [refgame.MaxKeyLen]byte
		notation, _ := X.MarshalOut(buf[:0], refgame.AsNotation)
		out.Write(notation)
	}
	if opts.Labels {
		for i, k := range X.knowledge[:X.players] {
			fmt.Fprintf(out, ",%s=%s", refgame.PlayerName(i), k)
		}
		for i, s := range X.signs[:X.Pairs()] {
			fmt.Fprintf(out, ",%s=%s", refgame.PairName(X.players, i), s)
		}
	}
}

func (X *Condition) String() string {
	var buf [refgame.MaxKeyLen]byte
	notation, err := X.MarshalOut(buf[:0], refgame.AsNotation)
	if err != nil {
		return "(invalid condition)"
	}
	return string(notation)
}

// PermuteIncentiveSigns emits every incentive-sign assignment of this
// condition's topology (including the current one) into dst.
// A dyad yields 3 variants, a triad 27.
func (X *Condition) PermuteIncentiveSigns(dst *refgame.ConditionStream) {
	pairs := X.Pairs()

	var counter [refgame.MaxPairs]int
	for {
		Xi := NewCondition(X)
		for i := 0; i < pairs; i++ {
			Xi.signs[i] = refgame.AllIncentiveSigns[counter[i]]
		}
		dst.Outlet <- Xi

		// Odometer step over the sign alphabet
		j := 0
		for ; j < pairs; j++ {
			counter[j]++
			if counter[j] < refgame.IncentiveSigns {
				break
			}
			counter[j] = 0
		}
		if j == pairs {
			break
		}
	}
}

// Network builds the fixed-topology node/edge table for this condition.
func (X *Condition) Network() (*Network, error) {
	return MakeNetwork(X.players, X.knowledge[:X.players], X.signs[:X.Pairs()])
}
