package models

// Attempt stores one answered problem
type Attempt struct {
	UserID      int64
	RunID       string
	Category    Category
	Difficulty  int
	Question    string
	Expected    string
	Given       string
	Correct     bool
	TimedOut    bool
	XPGained    int
	CoinsGained int
	Timestamp   int64
}

// CategoryMisses counts incorrect answers for a category
type CategoryMisses struct {
	Category Category
	Misses   int
}

// RunSummary stores how far a finished run got
type RunSummary struct {
	UserID       int64
	RunID        string
	DungeonLevel int
	Difficulty   Tier
	EndedAt      int64
}
