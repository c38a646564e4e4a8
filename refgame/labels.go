package refgame

// KnowledgeLevel is a player's certainty about referent values.
type KnowledgeLevel byte

const (
	KnowNone    KnowledgeLevel = 0
	KnowPartial KnowledgeLevel = 1
	KnowFull    KnowledgeLevel = 2

	// KnowledgeLevels counts the distinct knowledge levels.
	KnowledgeLevels = 3
)

var AllKnowledgeLevels = [...]KnowledgeLevel{
	KnowFull, KnowPartial, KnowNone,
}

func (k KnowledgeLevel) String() string {
	return [...]string{"none", "partial", "full"}[k]
}

// Code returns the single-char notation code for this level.
func (k KnowledgeLevel) Code() byte {
	return [...]byte{'n', 'p', 'f'}[k]
}

// Fill returns the node fill color encoding this level in a rendered diagram.
func (k KnowledgeLevel) Fill() string {
	return [...]string{"#ced4da", "#ffd43b", "#69db7c"}[k]
}

// KnowledgeOfCode maps a notation code to a KnowledgeLevel.
// Unrecognized codes fall back to KnowNone.
func KnowledgeOfCode(code byte) KnowledgeLevel {
	switch code {
	case 'f':
		return KnowFull
	case 'p':
		return KnowPartial
	}
	return KnowNone
}

// ExpandKnowledge maps each code char of the given string through the
// knowledge lookup table.  Output length always equals input length.
func ExpandKnowledge(codes string) []KnowledgeLevel {
	out := make([]KnowledgeLevel, len(codes))
	for i := 0; i < len(codes); i++ {
		out[i] = KnowledgeOfCode(codes[i])
	}
	return out
}

// IncentiveSign is the payoff relationship between two players:
// aligned ("+"), disaligned ("-"), or neutral ("0").
type IncentiveSign int8

const (
	IncentiveNeutral  IncentiveSign = 0
	IncentiveAligned  IncentiveSign = 1
	IncentiveDisalign IncentiveSign = -1

	// IncentiveSigns counts the distinct incentive signs.
	IncentiveSigns = 3
)

var AllIncentiveSigns = [...]IncentiveSign{
	IncentiveAligned, IncentiveDisalign, IncentiveNeutral,
}

func (s IncentiveSign) String() string {
	switch s {
	case IncentiveAligned:
		return "+"
	case IncentiveDisalign:
		return "-"
	}
	return "0"
}

// Code returns the single-char notation code for this sign.
func (s IncentiveSign) Code() byte {
	return s.String()[0]
}

// Stroke returns the edge stroke color encoding this sign in a rendered diagram.
func (s IncentiveSign) Stroke() string {
	switch s {
	case IncentiveAligned:
		return "#2f9e44"
	case IncentiveDisalign:
		return "#e03131"
	}
	return "#868e96"
}

// SignOfCode maps a notation code to an IncentiveSign.
// Unrecognized codes fall back to IncentiveNeutral.
func SignOfCode(code byte) IncentiveSign {
	switch code {
	case '+':
		return IncentiveAligned
	case '-':
		return IncentiveDisalign
	}
	return IncentiveNeutral
}

// ExpandIncentives maps each code char of the given string through the
// incentive lookup table.  Output length always equals input length.
func ExpandIncentives(codes string) []IncentiveSign {
	out := make([]IncentiveSign, len(codes))
	for i := 0; i < len(codes); i++ {
		out[i] = SignOfCode(codes[i])
	}
	return out
}

// PlayerName returns the display name of the given zero-based player index.
func PlayerName(player int) string {
	return [...]string{"A", "B", "C"}[player]
}

// PairName returns the display name of the given pair of a game, e.g. "AB".
func PairName(players, pair int) string {
	a, b := PairEnds(players, pair)
	return PlayerName(a) + PlayerName(b)
}
