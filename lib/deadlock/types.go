package deadlock

// RawMatchSnapshot is one fetched state of an in-progress match, as served
// by the active-matches feed. Immutable once fetched.
type RawMatchSnapshot struct {
	MatchID             int64    `json:"match_id"`
	NetWorthTeam0       int64    `json:"net_worth_team_0"`
	NetWorthTeam1       int64    `json:"net_worth_team_1"`
	MatchScore          int      `json:"match_score"`
	Players             []Player `json:"players"`
	ObjectivesMaskTeam0 uint16   `json:"objectives_mask_team0"`
	ObjectivesMaskTeam1 uint16   `json:"objectives_mask_team1"`
}

type Player struct {
	AccountID uint32 `json:"account_id"`
	HeroID    int64  `json:"hero_id"`
}
