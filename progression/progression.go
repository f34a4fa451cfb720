// Package progression maps cumulative experience to ranks.
package progression

import "github.com/korjavin/mathdungeonbot/models"

// Ranks is the rank ladder, ascending by XPRequired
var Ranks = []models.Rank{
	{Name: "Middle School Novice", XPRequired: 0, MaxXP: 1000},
	{Name: "Algebra Apprentice", XPRequired: 1000, MaxXP: 3000},
	{Name: "Geometry Scholar", XPRequired: 3000, MaxXP: 6000},
	{Name: "Algebra II Ace", XPRequired: 6000, MaxXP: 10000},
	{Name: "Pre-Calculus Pro", XPRequired: 10000, MaxXP: 15000},
	{Name: "Calculus Conqueror", XPRequired: 15000, MaxXP: 20000},
	{Name: "Linear Logic Master", XPRequired: 20000, MaxXP: 30000},
	{Name: "Analysis Architect", XPRequired: 30000, MaxXP: 45000},
	{Name: "Abstract Alchemist", XPRequired: 45000, MaxXP: 60000},
	{Name: "Theoretical Titan", XPRequired: 60000, MaxXP: models.Unlimited},
}

// System computes ranks over a ladder
type System struct {
	ranks []models.Rank
}

// New returns a System over the default ladder
func New() *System {
	return &System{ranks: Ranks}
}

// CurrentRank returns the highest rank whose threshold xp reaches.
// Negative xp counts as zero.
func (s *System) CurrentRank(xp int) models.RankStatus {
	if xp < 0 {
		xp = 0
	}
	for i := len(s.ranks) - 1; i >= 0; i-- {
		if xp >= s.ranks[i].XPRequired {
			return models.RankStatus{
				Rank:     s.ranks[i],
				Index:    i,
				Progress: s.progress(xp, i),
			}
		}
	}
	return models.RankStatus{Rank: s.ranks[0], Index: 0, Progress: 0}
}

// progress is the percentage of the way from rank i to rank i+1, in [0, 100]
func (s *System) progress(xp, i int) float64 {
	if i+1 >= len(s.ranks) {
		return 100
	}
	current, next := s.ranks[i], s.ranks[i+1]
	p := float64(xp-current.XPRequired) / float64(next.XPRequired-current.XPRequired) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// NextRankRequirement reports the next rank and the xp left to reach its
// threshold. ok is false at the terminal rank.
func (s *System) NextRankRequirement(xp int) (req models.NextRankRequirement, ok bool) {
	current := s.CurrentRank(xp)
	if current.Index+1 >= len(s.ranks) {
		return models.NextRankRequirement{}, false
	}
	next := s.ranks[current.Index+1]
	return models.NextRankRequirement{
		NextRank: next.Name,
		XPNeeded: next.XPRequired - xp,
	}, true
}
