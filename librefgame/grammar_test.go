package librefgame_test

import (
	"testing"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/refgame"
)

func TestParseCondExpr(t *testing.T) {
	expr, err := librefgame.ParseCondExpr("fp:+ ; fpn:+-0 ; nn")
	if err != nil {
		t.Fatal(err)
	}
	if len(expr.Conds) != 3 {
		t.Fatalf("got %d terms", len(expr.Conds))
	}
	if expr.Conds[0].Knowledge != "fp" || len(expr.Conds[0].Signs) != 1 {
		t.Fatalf("bad term: %+v", expr.Conds[0])
	}
	if len(expr.Conds[2].Signs) != 0 {
		t.Fatalf("bad term: %+v", expr.Conds[2])
	}
}

func TestOmittedSignsAreNeutral(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	if err := X.InitFromString("fpn"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < X.Pairs(); i++ {
		if X.Incentive(i) != refgame.IncentiveNeutral {
			t.Fatalf("pair %d not neutral", i)
		}
	}
	if X.String() != "fpn:000" {
		t.Fatal(X.String())
	}
}

func TestInitFromStringErrors(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	for _, expr := range []string{
		"",          // no terms
		"fp:+ ; nn", // multiple terms
		"f:+",       // one player
		"ffff",      // four players
		"fp:+-",     // too many signs
		"fpn:+",     // too few signs
		"fp:*",      // bad sign char
	} {
		if err := X.InitFromString(expr); err == nil {
			t.Fatalf("%q should not parse", expr)
		}
	}
}

func TestStreamFromExpr(t *testing.T) {
	stream, err := librefgame.StreamFromExpr("fn:+ ; fp:- ; nn:0")
	if err != nil {
		t.Fatal(err)
	}
	count := stream.PullAll()
	if count != 3 {
		t.Fatalf("got %d conditions", count)
	}

	// A bad term anywhere fails the whole expression
	if _, err = librefgame.StreamFromExpr("fn:+ ; f:0"); err == nil {
		t.Fatal("expected error")
	}
}
