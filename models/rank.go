package models

// Rank is one step of the progression ladder
type Rank struct {
	Name       string `json:"name"`
	XPRequired int    `json:"xpRequired"`
	MaxXP      int    `json:"maxXP"`
}

// RankStatus is a rank with the player's position on it
type RankStatus struct {
	Rank
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
}

// NextRankRequirement tells how far the next rank threshold is
type NextRankRequirement struct {
	NextRank string `json:"nextRank"`
	XPNeeded int    `json:"xpNeeded"`
}
