package librefgame_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/refgame"
)

var conds = []string{
	"fn:+", "fp:-", "nn:0", "ff:+",
	"fpn:+-0", "fff:+++", "nnn:000", "pfn:-0+",
}

func TestKeyRoundTrip(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	for _, Xstr := range conds {
		if err := X.InitFromString(Xstr); err != nil {
			t.Fatal(err)
		}

		key, err := X.MarshalOut(nil, refgame.AsKey)
		if err != nil {
			t.Fatal(err)
		}
		if len(key) != 1+X.Players()+X.Pairs() {
			t.Fatalf("%s: key len %d", Xstr, len(key))
		}

		Xi, err := librefgame.NewConditionFromKey(key)
		if err != nil {
			t.Fatal(err)
		}
		if Xi.String() != Xstr {
			t.Fatalf("round trip of %q got %q", Xstr, Xi.String())
		}
		Xi.Reclaim()
	}
}

func TestBadKeys(t *testing.T) {
	bad := [][]byte{
		nil,
		{},
		{1, 'f'},
		{4, 'f', 'f', 'f', 'f', '+', '+', '+', '+', '+', '+'},
		{2, 'f', 'n'},                // missing sign
		{3, 'f', 'p', 'n', '+', '-'}, // short signs
		{2, 'f', 'n', '+', '0'},      // extra sign
	}
	for _, key := range bad {
		if _, err := librefgame.NewConditionFromKey(key); err == nil {
			t.Fatalf("key %v should not unmarshal", key)
		}
	}
}

func TestWriteAsString(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	if err := X.InitFromString("fpn:+-0"); err != nil {
		t.Fatal(err)
	}

	buf := bytes.Buffer{}
	X.WriteAsString(&buf, refgame.PrintOpts{Notation: true, Labels: true})
	got := buf.String()

	want := "fpn:+-0,A=full,B=partial,C=none,AB=+,BC=-,CA=0"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInfoCounts(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	if err := X.InitFromString("fpn:+-0"); err != nil {
		t.Fatal(err)
	}
	info := X.GetInfo()
	if info.Players != 3 || info.FullK != 1 || info.PartialK != 1 || info.NoneK != 1 {
		t.Fatalf("bad knowledge counts: %+v", info)
	}
	if info.PosEdges != 1 || info.NegEdges != 1 || info.NeutralEdges != 1 {
		t.Fatalf("bad edge counts: %+v", info)
	}
}

func TestInitErrors(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	err := X.InitFromLabels([]refgame.KnowledgeLevel{refgame.KnowFull}, nil)
	if err != refgame.ErrBadPlayerCount {
		t.Fatal("expected ErrBadPlayerCount")
	}

	err = X.InitFromLabels(
		[]refgame.KnowledgeLevel{refgame.KnowFull, refgame.KnowNone},
		[]refgame.IncentiveSign{refgame.IncentiveAligned, refgame.IncentiveAligned})
	if err != refgame.ErrIncentiveLen {
		t.Fatal("expected ErrIncentiveLen")
	}
}

func TestPermuteSigns(t *testing.T) {
	for _, test := range []struct {
		expr string
		want int
	}{
		{"fn", 3},
		{"fpn", 27},
	} {
		X := librefgame.NewCondition(nil)
		if err := X.InitFromString(test.expr); err != nil {
			t.Fatal(err)
		}

		count := refgame.StreamCondition(X).PermuteIncentiveSigns().PullAll()
		if count != test.want {
			t.Fatalf("%s: got %d variants, want %d", test.expr, count, test.want)
		}
		X.Reclaim()
	}
}

func TestPermuteSignsCoversAll(t *testing.T) {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()
	if err := X.InitFromString("fpn"); err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	stream := refgame.StreamCondition(X).PermuteIncentiveSigns()
	for Xi := range stream.Outlet {
		notation := strings.Builder{}
		Xi.WriteAsString(&notation, refgame.DefaultPrintOpts)
		if seen[notation.String()] {
			t.Fatalf("duplicate variant %q", notation.String())
		}
		seen[notation.String()] = true
		Xi.Reclaim()
	}
	if len(seen) != 27 {
		t.Fatalf("got %d unique variants", len(seen))
	}
}
