package refgame

import "errors"

// Errors
var (
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrBadPlayerCount  = errors.New("unsupported player count")
	ErrKnowledgeLen    = errors.New("knowledge labels do not match player count")
	ErrIncentiveLen    = errors.New("incentive labels do not match pair count")
	ErrBadCondExpr     = errors.New("bad condition expression")
	ErrBadNetwork      = errors.New("bad or empty network table")
	ErrNilCondition    = errors.New("nil condition")
)
