package response

type LeaderboardEntryResponse struct {
	TeamID uint    `json:"team_id"`
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
}

type LeaderboardResponse struct {
	Locked    bool                       `json:"locked"`
	Published bool                       `json:"published"`
	Entries   []LeaderboardEntryResponse `json:"entries"`
}

// LockConflictResponse is returned when lock-and-rank loses the transition
// race: the caller still gets the existing snapshot.
type LockConflictResponse struct {
	Error   string                     `json:"error"`
	Entries []LeaderboardEntryResponse `json:"entries"`
}
