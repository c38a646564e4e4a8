package librefgame

import (
	"github.com/arcspace/go-arc-sdk/stdlib/symbol"
	"github.com/arcspace/go-arc-sdk/stdlib/symbol/memory_table"

	"github.com/refgame-systems/gorefnet/refgame"
)

// EnumConditions streams every knowledge and incentive assignment for the
// given player count: 27 conditions for a dyad, 729 for a triad.
//
// Knowledge assignments are enumerated directly.  Sign assignments are walked
// by forking one pair mutation at a time from the all-neutral seed, so the
// same assignment is reached along many mutation orders; each arrival is
// checked against a symbol table of already-emitted encodings and
// re-arrivals are dropped, leaving each condition emitted exactly once.
func EnumConditions(players int) (*refgame.ConditionStream, error) {
	if players < refgame.MinPlayers || players > refgame.MaxPlayers {
		return nil, refgame.ErrBadPlayerCount
	}

	tableOpts := memory_table.DefaultOpts()
	emitted, err := tableOpts.CreateTable()
	if err != nil {
		return nil, err
	}

	ce := &condEnum{
		players: players,
		pairs:   pairCount(players),
		emitted: emitted,
		stream: &refgame.ConditionStream{
			Outlet: make(chan refgame.ConditionState, 1),
		},
	}

	go func() {
		ce.emitKnowledge(0)
		ce.stream.Close()
	}()

	return ce.stream, nil
}

type condEnum struct {
	players int
	pairs   int
	emitted symbol.Table

	knowledge [refgame.MaxPlayers]refgame.KnowledgeLevel
	forkQueue []*Condition

	stream *refgame.ConditionStream
}

func (ce *condEnum) emitKnowledge(player int) {
	if player == ce.players {
		ce.walkSigns()
		return
	}
	for _, k := range refgame.AllKnowledgeLevels {
		ce.knowledge[player] = k
		ce.emitKnowledge(player + 1)
	}
}

// walkSigns fans out from the all-neutral sign assignment of the current
// knowledge assignment, mutating one pair per fork until no fork yields a
// new condition.
func (ce *condEnum) walkSigns() {
	seed := NewCondition(nil)
	if err := seed.InitFromLabels(ce.knowledge[:ce.players], make([]refgame.IncentiveSign, ce.pairs)); err != nil {
		seed.Reclaim()
		return
	}
	ce.fork(seed)

	for len(ce.forkQueue) > 0 {
		last := len(ce.forkQueue) - 1
		Xi := ce.forkQueue[last]
		ce.forkQueue = ce.forkQueue[:last]

		for pair := 0; pair < ce.pairs; pair++ {
			for _, s := range refgame.AllIncentiveSigns {
				if Xi.signs[pair] == s {
					continue
				}
				Xf := NewCondition(Xi)
				Xf.signs[pair] = s
				ce.fork(Xf)
			}
		}
		Xi.Reclaim()
	}
}

// fork emits X if its canonic encoding has not been issued yet, queuing a
// copy of X for further mutation.  A re-arrival is reclaimed and goes no
// further.
func (ce *condEnum) fork(X *Condition) {
	var keyBuf [refgame.MaxKeyLen]byte
	key, err := X.MarshalOut(keyBuf[:0], refgame.AsKey)
	if err != nil {
		X.Reclaim()
		return
	}

	if ce.emitted.GetSymbolID(key, false) != 0 {
		X.Reclaim()
		return
	}
	ce.emitted.GetSymbolID(key, true)

	ce.forkQueue = append(ce.forkQueue, NewCondition(X))
	ce.stream.Outlet <- X
}
