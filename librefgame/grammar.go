package librefgame

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/refgame-systems/gorefnet/refgame"
)

// Condition expression notation:
//
//	fp:+         dyad: A full, B partial, AB aligned
//	fpn:+-0      triad: knowledge A,B,C then signs AB,BC,CA
//	fp:+ ; nn:0  multiple conditions joined by ";"
//
// An omitted sign run means all pairs neutral.

type CondExpr struct {
	Conds []*CondTerm `parser:"(@@ (';' @@)*)?"`
}

type CondTerm struct {
	Knowledge string   `parser:"@Know"`
	Signs     []string `parser:"(':' @Sign*)?"`
}

var sCondLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[:;]`},
	{Name: "Sign", Pattern: `[-+0]`},
	{Name: "Know", Pattern: `[a-z]+`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

var sParseCondExpr = participle.MustBuild[CondExpr](
	participle.Lexer(sCondLexer),
)

// ParseCondExpr parses a condition expression into its term list.
func ParseCondExpr(expr string) (*CondExpr, error) {
	return sParseCondExpr.ParseString("", expr)
}

func (X *Condition) applyTerm(term *CondTerm) error {
	players := len(term.Knowledge)
	if players < refgame.MinPlayers || players > refgame.MaxPlayers {
		return refgame.ErrBadPlayerCount
	}
	pairs := pairCount(players)

	signs := make([]refgame.IncentiveSign, pairs)
	if len(term.Signs) > 0 {
		if len(term.Signs) != pairs {
			return refgame.ErrIncentiveLen
		}
		for i, sign := range term.Signs {
			signs[i] = refgame.SignOfCode(sign[0])
		}
	}

	return X.InitFromLabels(refgame.ExpandKnowledge(term.Knowledge), signs)
}

// InitFromString sets this condition from a single-term condition expression.
func (X *Condition) InitFromString(condExpr string) error {
	expr, err := ParseCondExpr(condExpr)
	if err != nil {
		return err
	}
	if len(expr.Conds) != 1 {
		return refgame.ErrBadCondExpr
	}
	return X.applyTerm(expr.Conds[0])
}

// StreamFromExpr parses a (possibly multi-term) condition expression and
// streams each condition in order of appearance.
func StreamFromExpr(condExpr string) (*refgame.ConditionStream, error) {
	expr, err := ParseCondExpr(condExpr)
	if err != nil {
		return nil, err
	}

	conds := make([]*Condition, 0, len(expr.Conds))
	for _, term := range expr.Conds {
		X := NewCondition(nil)
		if err := X.applyTerm(term); err != nil {
			X.Reclaim()
			for _, Xi := range conds {
				Xi.Reclaim()
			}
			return nil, err
		}
		conds = append(conds, X)
	}

	stream := refgame.NewConditionStream()
	go func() {
		for _, X := range conds {
			stream.Outlet <- X
		}
		stream.Close()
	}()
	return stream, nil
}
