// Package dungeon implements the per-session dungeon run: room generation,
// answer evaluation, rewards and difficulty escalation.
package dungeon

import (
	"math"
	"strings"

	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/random"
)

const (
	// DefaultMaxHealth is the health of a fresh run
	DefaultMaxHealth = 100
	// BaseTimeLimit is the answer budget in seconds before the tier modifier
	BaseTimeLimit = 60
	// RoomsPerLevel cleared rooms trigger a level up
	RoomsPerLevel = 10
	// WrongAnswerDamage is lost on a wrong or timed-out answer
	WrongAnswerDamage = 15
	// LevelUpHeal is restored on every level up
	LevelUpHeal = 25
	// LevelsPerTier is the level interval of tier escalation
	LevelsPerTier = 3

	baseXP    = 50
	baseCoins = 10
)

// ProblemGenerator produces problems for a category and difficulty
type ProblemGenerator interface {
	Generate(category models.Category, difficulty int) (*models.Problem, error)
}

type tierConfig struct {
	categories    []models.Category
	minDifficulty int
	maxDifficulty int
	timeModifier  float64
}

var tiers = map[models.Tier]tierConfig{
	models.TierNovice: {
		categories:    []models.Category{models.CategoryArithmetic},
		minDifficulty: 1, maxDifficulty: 2, timeModifier: 1.5,
	},
	models.TierApprentice: {
		categories:    []models.Category{models.CategoryArithmetic, models.CategoryAlgebra},
		minDifficulty: 2, maxDifficulty: 4, timeModifier: 1.2,
	},
	models.TierScholar: {
		categories:    []models.Category{models.CategoryAlgebra, models.CategoryGeometry},
		minDifficulty: 3, maxDifficulty: 5, timeModifier: 1.0,
	},
	models.TierExpert: {
		categories:    []models.Category{models.CategoryAlgebra, models.CategoryGeometry, models.CategoryCalculus},
		minDifficulty: 4, maxDifficulty: 6, timeModifier: 0.8,
	},
	models.TierMaster: {
		categories:    []models.Category{models.CategoryGeometry, models.CategoryCalculus},
		minDifficulty: 5, maxDifficulty: 7, timeModifier: 0.6,
	},
}

// Engine holds the state of one dungeon run. It is not safe for concurrent
// use; every game session owns its own Engine.
type Engine struct {
	problems ProblemGenerator
	src      random.Source
	state    models.EngineState
}

// New creates an engine in its initial state
func New(problems ProblemGenerator, src random.Source) *Engine {
	e := &Engine{problems: problems, src: src}
	e.Reset()
	return e
}

// Reset starts a fresh run: level 1, full health, apprentice tier.
func (e *Engine) Reset() {
	e.state = models.EngineState{
		DungeonLevel:   1,
		PlayerHealth:   DefaultMaxHealth,
		MaxHealth:      DefaultMaxHealth,
		CurrentRoom:    0,
		RoomsCleared:   0,
		ItemsCollected: []models.Item{},
		ActiveEffects:  []string{},
		Difficulty:     models.TierApprentice,
	}
}

// State returns a snapshot of the run state
func (e *Engine) State() models.EngineState {
	return e.state.Clone()
}

// GenerateProblem picks a category and difficulty allowed by the current tier
// and asks the generator for a problem. Generator errors are returned as is.
func (e *Engine) GenerateProblem() (*models.Problem, error) {
	cfg := tiers[e.state.Difficulty]
	category := random.Pick(e.src, cfg.categories)
	difficulty := random.Between(e.src, cfg.minDifficulty, cfg.maxDifficulty)
	return e.problems.Generate(category, difficulty)
}

// TimeLimit returns the answer time budget for the current tier
func (e *Engine) TimeLimit() int {
	return int(math.Floor(BaseTimeLimit * tiers[e.state.Difficulty].timeModifier))
}

// ProcessAnswer judges an answer and applies its consequences to the run.
func (e *Engine) ProcessAnswer(answer, correctAnswer string, timeUsed, timeLimit int) models.AnswerResult {
	correct := CheckAnswer(answer, correctAnswer)
	bonus := TimeBonus(timeUsed, timeLimit)

	result := models.AnswerResult{
		Correct:   correct,
		TimeBonus: bonus,
	}

	if correct {
		result.XPGained = baseXP + bonus
		result.CoinsGained = baseCoins + bonus/5
		e.state.RoomsCleared++
	} else {
		result.HealthChange = -WrongAnswerDamage
		result.StreakBroken = true
		e.state.PlayerHealth = max(0, e.state.PlayerHealth-WrongAnswerDamage)
	}

	return result
}

// CheckAnswer compares answers case-insensitively, ignoring all whitespace.
func CheckAnswer(answer, correctAnswer string) bool {
	return normalize(answer) == normalize(correctAnswer)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// TimeBonus is a step function of the share of the time budget used.
func TimeBonus(timeUsed, timeLimit int) int {
	if timeLimit <= 0 {
		return 0
	}
	ratio := float64(timeUsed) / float64(timeLimit)
	switch {
	case ratio <= 0.3:
		return 25
	case ratio <= 0.5:
		return 15
	case ratio <= 0.7:
		return 10
	case ratio <= 0.9:
		return 5
	default:
		return 0
	}
}

// IsGameOver reports whether the player has run out of health
func (e *Engine) IsGameOver() bool {
	return e.state.PlayerHealth <= 0
}

// ShouldLevelUp reports whether enough rooms were cleared on this level
func (e *Engine) ShouldLevelUp() bool {
	return e.state.RoomsCleared >= RoomsPerLevel
}

// LevelUp moves to the next dungeon level, heals, and escalates the tier on
// every third level.
func (e *Engine) LevelUp() {
	e.state.DungeonLevel++
	e.state.RoomsCleared = 0
	e.state.PlayerHealth = min(e.state.MaxHealth, e.state.PlayerHealth+LevelUpHeal)

	if e.state.DungeonLevel%LevelsPerTier == 0 {
		e.IncreaseDifficulty()
	}
}

// IncreaseDifficulty advances one tier; it is a no-op at master.
func (e *Engine) IncreaseDifficulty() {
	e.state.Difficulty = e.state.Difficulty.Next()
}
