package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/librefgame/render"
)

func TestFigureNumbering(t *testing.T) {
	rpt := render.NewReport("test")
	s := rpt.AddSection("conditions")

	X := librefgame.NewCondition(nil)
	defer X.Reclaim()

	X.InitFromString("fn:+")
	fig1, err := rpt.AddFigure(s, X, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if fig1.Num != 1 || fig1.Notation != "fn:+" {
		t.Fatalf("bad figure: %+v", fig1)
	}

	X.InitFromString("fp:-")
	fig2, err := rpt.AddFigure(s, X, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if fig2.Num != 2 {
		t.Fatalf("bad figure num: %d", fig2.Num)
	}

	// The same condition keeps its original figure number
	X.InitFromString("fn:+")
	figDup, err := rpt.AddFigure(s, X, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if figDup != fig1 {
		t.Fatal("duplicate condition should reuse its figure")
	}
	if fig1.Notation != "fn:+" {
		t.Fatalf("figure notation corrupted: %q", fig1.Notation)
	}
	if rpt.NumFigures() != 2 {
		t.Fatalf("distinct figures: %d", rpt.NumFigures())
	}

	// Dedupe also spans sections
	s2 := rpt.AddSection("later")
	X.InitFromString("fp:-")
	figDup, err = rpt.AddFigure(s2, X, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if figDup != fig2 || rpt.NumFigures() != 2 {
		t.Fatal("duplicate condition should reuse its figure across sections")
	}
}

func TestGallery(t *testing.T) {
	rpt := render.NewReport("test")
	s := rpt.AddSection("all dyads")

	stream, err := librefgame.EnumConditions(2)
	if err != nil {
		t.Fatal(err)
	}
	count, err := rpt.AddGallery(s, stream, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if count != 27 || rpt.NumFigures() != 27 {
		t.Fatalf("gallery drew %d of %d figures", rpt.NumFigures(), count)
	}
}

func TestWriteHTML(t *testing.T) {
	rpt := render.NewReport("Dyadic Reference Games")
	s := rpt.AddSection("The speaker-listener game")
	s.AddProse("A fully informed speaker <describes> the referent.")

	X := librefgame.NewCondition(nil)
	defer X.Reclaim()
	X.InitFromString("fn:+")

	opts := render.DefaultOpts
	opts.Caption = "The speaker-listener game."
	if _, err := rpt.AddFigure(s, X, opts); err != nil {
		t.Fatal(err)
	}

	buf := bytes.Buffer{}
	if err := rpt.WriteHTML(&buf); err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>Dyadic Reference Games</title>",
		"<h2>The speaker-listener game</h2>",
		"Figure 1. The speaker-listener game.",
		"<svg ",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q", want)
		}
	}

	// Prose is escaped, figures are not
	if !strings.Contains(html, "&lt;describes&gt;") {
		t.Fatal("prose not escaped")
	}
}
