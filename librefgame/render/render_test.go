package render_test

import (
	"strings"
	"testing"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/librefgame/render"
	"github.com/refgame-systems/gorefnet/refgame"
)

func makeTestNetwork(t *testing.T, expr string) *librefgame.Network {
	X := librefgame.NewCondition(nil)
	defer X.Reclaim()
	if err := X.InitFromString(expr); err != nil {
		t.Fatal(err)
	}
	net, err := X.Network()
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestSVGContent(t *testing.T) {
	net := makeTestNetwork(t, "fn:+")

	svg, err := render.SVG(net, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not an svg fragment")
	}
	if strings.Count(svg, "<circle ") != 2 {
		t.Fatal("dyad should draw 2 nodes")
	}
	if strings.Count(svg, "<line ") != 1 {
		t.Fatal("dyad should draw 1 edge")
	}

	// A's full knowledge fill and the aligned edge stroke
	if !strings.Contains(svg, refgame.KnowFull.Fill()) {
		t.Fatal("missing full-knowledge fill")
	}
	if !strings.Contains(svg, refgame.IncentiveAligned.Stroke()) {
		t.Fatal("missing aligned stroke")
	}
}

func TestSVGTriad(t *testing.T) {
	net := makeTestNetwork(t, "fpn:+-0")

	svg, err := render.SVG(net, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(svg, "<circle ") != 3 || strings.Count(svg, "<line ") != 3 {
		t.Fatal("bad triad shape")
	}
	for _, stroke := range []string{
		refgame.IncentiveAligned.Stroke(),
		refgame.IncentiveDisalign.Stroke(),
		refgame.IncentiveNeutral.Stroke(),
	} {
		if !strings.Contains(svg, stroke) {
			t.Fatalf("missing stroke %s", stroke)
		}
	}
}

func TestSVGDeterministic(t *testing.T) {
	net := makeTestNetwork(t, "fpn:+-0")

	a, err := render.SVG(net, render.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := render.SVG(net, render.DefaultOpts)
	if a != b {
		t.Fatal("output not deterministic")
	}
}

func TestSVGLegend(t *testing.T) {
	net := makeTestNetwork(t, "fn:+")

	opts := render.DefaultOpts
	opts.Legend = true
	svg, err := render.SVG(net, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(svg, "<rect ") != refgame.KnowledgeLevels {
		t.Fatal("legend should swatch each knowledge level")
	}
}

func TestSVGErrors(t *testing.T) {
	if _, err := render.SVG(nil, render.DefaultOpts); err != refgame.ErrBadNetwork {
		t.Fatal("expected ErrBadNetwork")
	}
	if _, err := render.SVG(&librefgame.Network{}, render.DefaultOpts); err != refgame.ErrBadNetwork {
		t.Fatal("expected ErrBadNetwork")
	}

	net := makeTestNetwork(t, "fn:+")
	net.Edges[0].B = 7
	if _, err := render.SVG(net, render.DefaultOpts); err != refgame.ErrBadNetwork {
		t.Fatal("expected ErrBadNetwork")
	}
}
