package librefgame

import (
	"github.com/refgame-systems/gorefnet/refgame"
)

// NetworkNode is one player of a condition placed at a fixed layout position.
type NetworkNode struct {
	Name      string // player name ("A", "B", "C")
	X, Y      float32
	Knowledge refgame.KnowledgeLevel
}

// NetworkEdge joins two players of a condition and carries their incentive sign.
// LabelX / LabelY anchor the sign glyph in a rendered diagram.
type NetworkEdge struct {
	A, B           int // node indices
	Sign           refgame.IncentiveSign
	LabelX, LabelY float32
}

// Network is the node/edge table of one condition: a fixed-shape, fully
// connected graph of 2 or 3 players.  Coordinates are literal per-topology
// constants within the unit square, not a computed layout.
type Network struct {
	Nodes []NetworkNode
	Edges []NetworkEdge
}

// Rows returns the total row count of this table (node rows + edge rows).
// A dyad yields 3 rows, a triad 6.
func (net *Network) Rows() int {
	return len(net.Nodes) + len(net.Edges)
}

// Fixed layouts: a horizontal edge for dyads, a triangle for triads.
var (
	sDyadNodes = [2][2]float32{
		{0.15, 0.50},
		{0.85, 0.50},
	}
	sDyadEdgeAnchors = [1][2]float32{
		{0.50, 0.42},
	}

	sTriadNodes = [3][2]float32{
		{0.50, 0.14},
		{0.12, 0.82},
		{0.88, 0.82},
	}
	sTriadEdgeAnchors = [3][2]float32{
		{0.24, 0.46}, // AB
		{0.50, 0.90}, // BC
		{0.76, 0.46}, // CA
	}
)

// MakeNetwork builds the node/edge table for a condition from expanded labels.
//
// Only the dyad and triad topologies are supported; other player counts and
// mismatched label lengths return an error.
func MakeNetwork(players int, knowledge []refgame.KnowledgeLevel, incentives []refgame.IncentiveSign) (*Network, error) {
	var (
		nodePos    [][2]float32
		edgeAnchor [][2]float32
	)
	switch players {
	case 2:
		nodePos = sDyadNodes[:]
		edgeAnchor = sDyadEdgeAnchors[:]
	case 3:
		nodePos = sTriadNodes[:]
		edgeAnchor = sTriadEdgeAnchors[:]
	default:
		return nil, refgame.ErrBadPlayerCount
	}

	if len(knowledge) != players {
		return nil, refgame.ErrKnowledgeLen
	}
	pairs := pairCount(players)
	if len(incentives) != pairs {
		return nil, refgame.ErrIncentiveLen
	}

	net := &Network{
		Nodes: make([]NetworkNode, players),
		Edges: make([]NetworkEdge, pairs),
	}

	for i := 0; i < players; i++ {
		net.Nodes[i] = NetworkNode{
			Name:      refgame.PlayerName(i),
			X:         nodePos[i][0],
			Y:         nodePos[i][1],
			Knowledge: knowledge[i],
		}
	}

	for i := 0; i < pairs; i++ {
		a, b := refgame.PairEnds(players, i)
		net.Edges[i] = NetworkEdge{
			A:      a,
			B:      b,
			Sign:   incentives[i],
			LabelX: edgeAnchor[i][0],
			LabelY: edgeAnchor[i][1],
		}
	}

	return net, nil
}
