package atlas_test

import (
	"os"
	"path"
	"testing"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/librefgame/atlas"
	"github.com/refgame-systems/gorefnet/refgame"
)

var seedConds = []string{
	"fn:+", "fp:-", "nn:0",
	"fpn:+-0", "fff:+++",
}

var (
	gT *testing.T

	gCatalogCtx = refgame.NewCatalogContext()
)

func TestBasics(t *testing.T) {

	gT = t
	dir, err := os.MkdirTemp("", "junk*")
	if err != nil {
		gT.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := refgame.CatalogOpts{
		DbPathName: path.Join(dir, "TestBasics"),
	}
	cat, err := atlas.OpenAtlas(gCatalogCtx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	X := librefgame.NewCondition(nil)

	for _, Xstr := range seedConds {
		X.InitFromString(Xstr)
		if added := cat.TryAddCondition(X); !added {
			t.Fatal("nope")
		}
		if added := cat.TryAddCondition(X); added {
			t.Fatal("nope")
		}
	}

	if cat.NumConditions(2) != 3 {
		t.Fatal("bad dyad count")
	}
	if cat.NumConditions(3) != 2 {
		t.Fatal("bad triad count")
	}
	if cat.NumConditions(9) != 0 {
		t.Fatal("out of bounds count")
	}

	// Select -- we should get all the conditions we've added so far
	{
		total := 0
		onHit := make(chan refgame.ConditionState)
		go func() {
			cat.Select(refgame.DefaultConditionSelector, onHit)
			close(onHit)
		}()
		for Xi := range onHit {
			total++
			Xi.Reclaim()
		}
		if total != len(seedConds) {
			t.Fatalf("select got %d", total)
		}
	}

	X.Reclaim()
}

func TestMemoryResident(t *testing.T) {

	gT = t
	cat, err := atlas.OpenAtlas(gCatalogCtx, refgame.CatalogOpts{})
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	stream, err := librefgame.EnumConditions(2)
	if err != nil {
		gT.Fatal(err)
	}
	if count := stream.AddTo(cat).PullAll(); count != 27 {
		t.Fatalf("added %d", count)
	}
	if cat.NumConditions(2) != 27 {
		t.Fatal("bad dyad count")
	}

	// Re-adding the enumeration is a no-op
	stream, _ = librefgame.EnumConditions(2)
	if count := stream.AddTo(cat).PullAll(); count != 0 {
		t.Fatalf("re-added %d", count)
	}
	if cat.NumConditions(2) != 27 {
		t.Fatal("count drifted")
	}
}

func TestSelectByPlayers(t *testing.T) {

	gT = t
	cat, err := atlas.OpenAtlas(gCatalogCtx, refgame.CatalogOpts{})
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	for _, players := range []int{2, 3} {
		stream, err := librefgame.EnumConditions(players)
		if err != nil {
			gT.Fatal(err)
		}
		stream.AddTo(cat).PullAll()
	}

	sel := refgame.DefaultConditionSelector
	sel.Min.Players = 3
	if count := refgame.SelectFromCatalog(cat, sel).PullAll(); count != 729 {
		t.Fatalf("triads: %d", count)
	}

	sel = refgame.DefaultConditionSelector
	sel.Max.Players = 2
	if count := refgame.SelectFromCatalog(cat, sel).PullAll(); count != 27 {
		t.Fatalf("dyads: %d", count)
	}
}

func TestReopen(t *testing.T) {

	gT = t
	dir, err := os.MkdirTemp("", "junk*")
	if err != nil {
		gT.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := refgame.CatalogOpts{
		DbPathName: path.Join(dir, "TestReopen"),
	}

	cat, err := atlas.OpenAtlas(gCatalogCtx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	stream, _ := librefgame.EnumConditions(2)
	stream.AddTo(cat).PullAll()
	if err = cat.Close(); err != nil {
		gT.Fatal(err)
	}

	// Counts and contents survive reopen
	cat, err = atlas.OpenAtlas(gCatalogCtx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	defer cat.Close()

	if cat.NumConditions(2) != 27 {
		t.Fatal("count not persisted")
	}
	if count := refgame.SelectFromCatalog(cat, refgame.DefaultConditionSelector).PullAll(); count != 27 {
		t.Fatalf("reopen select: %d", count)
	}
	if cat.IsReadOnly() {
		t.Fatal("not opened read-only")
	}
}
