// Package render draws condition networks as SVG figures and assembles them,
// with interpretive prose, into a static HTML report.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/refgame"
)

// Opts specifies how a network diagram is drawn.
type Opts struct {
	Width   int    // figure width in px (0 denotes default)
	Height  int    // figure height in px (0 denotes default)
	Legend  bool   // if set, a knowledge/incentive legend block is drawn
	Caption string // optional figure caption
}

var DefaultOpts = Opts{
	Width:  320,
	Height: 280,
}

const nodeRadius = 26

// SVG renders the given network as a standalone SVG document fragment.
// Rendering is deterministic: the same table yields byte-identical output.
func SVG(net *librefgame.Network, opts Opts) (string, error) {
	var b strings.Builder
	if err := WriteSVG(&b, net, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func WriteSVG(out io.Writer, net *librefgame.Network, opts Opts) error {
	if net == nil || len(net.Nodes) == 0 {
		return refgame.ErrBadNetwork
	}
	for _, e := range net.Edges {
		if e.A < 0 || e.A >= len(net.Nodes) || e.B < 0 || e.B >= len(net.Nodes) {
			return refgame.ErrBadNetwork
		}
	}

	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = DefaultOpts.Width
	}
	if h <= 0 {
		h = DefaultOpts.Height
	}

	fmt.Fprintf(out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n", w, h, w, h)

	// Edges first so nodes draw over the line ends
	for _, e := range net.Edges {
		a, b := net.Nodes[e.A], net.Nodes[e.B]
		fmt.Fprintf(out, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3"/>`+"\n",
			px(a.X, w), px(a.Y, h), px(b.X, w), px(b.Y, h), e.Sign.Stroke())
		fmt.Fprintf(out, `  <text x="%s" y="%s" text-anchor="middle" font-size="16" fill="%s">%s</text>`+"\n",
			px(e.LabelX, w), px(e.LabelY, h), e.Sign.Stroke(), e.Sign)
	}

	for _, n := range net.Nodes {
		fmt.Fprintf(out, `  <circle cx="%s" cy="%s" r="%d" fill="%s" stroke="#495057" stroke-width="2"/>`+"\n",
			px(n.X, w), px(n.Y, h), nodeRadius, n.Knowledge.Fill())
		fmt.Fprintf(out, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-size="15" font-weight="bold">%s</text>`+"\n",
			px(n.X, w), px(n.Y, h), n.Name)
		fmt.Fprintf(out, `  <text x="%s" y="%s" text-anchor="middle" font-size="11" fill="#495057">%s</text>`+"\n",
			px(n.X, w), pxOff(n.Y, h, nodeRadius+14), n.Knowledge)
	}

	if opts.Legend {
		writeLegend(out, w, h)
	}

	fmt.Fprint(out, "</svg>\n")
	return nil
}

// px maps a unit-square layout coordinate into pixel space, leaving a margin
// wide enough that node circles and their labels stay inside the figure.
func px(unit float32, span int) string {
	const margin = nodeRadius + 18
	v := float32(margin) + unit*float32(span-2*margin)
	return fmt.Sprintf("%.1f", v)
}

func pxOff(unit float32, span int, offset int) string {
	const margin = nodeRadius + 18
	v := float32(margin) + unit*float32(span-2*margin) + float32(offset)
	return fmt.Sprintf("%.1f", v)
}

func writeLegend(out io.Writer, w, h int) {
	y := h - 14
	x := 8
	for _, k := range refgame.AllKnowledgeLevels {
		fmt.Fprintf(out, `  <rect x="%d" y="%d" width="10" height="10" fill="%s"/>`+"\n", x, y-9, k.Fill())
		fmt.Fprintf(out, `  <text x="%d" y="%d" font-size="10">%s</text>`+"\n", x+13, y, k)
		x += 60
	}
	for _, s := range refgame.AllIncentiveSigns {
		fmt.Fprintf(out, `  <text x="%d" y="%d" font-size="10" fill="%s">%s</text>`+"\n", x, y, s.Stroke(), s)
		x += 18
	}
}
