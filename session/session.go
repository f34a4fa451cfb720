// Package session runs one player's dungeon game: it owns a dungeon engine and
// a player profile, keeps the answer countdown and logs attempts.
package session

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/korjavin/mathdungeonbot/calc"
	"github.com/korjavin/mathdungeonbot/dungeon"
	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/player"
	"github.com/korjavin/mathdungeonbot/problems"
	"github.com/korjavin/mathdungeonbot/progression"
	"github.com/korjavin/mathdungeonbot/random"
)

var (
	ErrEmptyAnswer      = errors.New("answer must not be empty")
	ErrNoActiveRun      = errors.New("no active run")
	ErrNoPendingProblem = errors.New("no problem is waiting for an answer")
	ErrProblemPending   = errors.New("answer the current problem first")
	ErrNoShop           = errors.New("no merchant in this room")
	ErrNoProblem        = errors.New("could not generate a problem")
)

// maxProblemAttempts bounds retries of retryable generator errors
const maxProblemAttempts = 32

// Store persists the attempt log
type Store interface {
	SaveAttempt(a models.Attempt) error
	SaveRun(r models.RunSummary) error
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces the wall clock used for the countdown
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Turn describes the room the player just entered
type Turn struct {
	Room      models.Room
	Problem   *models.Problem
	TimeLimit int
	Healed    int
	Coins     int
	Item      *models.Item
	Formula   string
	Shop      []models.Item
}

// Outcome describes the consequences of an answer
type Outcome struct {
	Result      models.AnswerResult
	Expected    string
	TimedOut    bool
	Coins       int
	Reward      models.Reward
	TrapPenalty int
	Drop        *player.Equipment
	LeveledUp   bool
	GameOver    bool
	State       models.EngineState
}

// Session is one player's game. Methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	userID  int64
	runID   string
	src     random.Source
	engine  *dungeon.Engine
	ranks   *progression.System
	profile *player.Profile
	store   Store
	now     func() time.Time

	active    bool
	room      models.Room
	problem   *models.Problem
	last      *models.Problem
	timeLimit int
	shownAt   time.Time
	hintShown bool
	shop      []models.Item
}

// New creates a session for a user. store may be nil.
func New(userID int64, src random.Source, store Store, opts ...Option) *Session {
	ranks := progression.New()
	s := &Session{
		userID:  userID,
		src:     src,
		engine:  dungeon.New(problems.NewGenerator(src), src),
		ranks:   ranks,
		profile: player.NewProfile(ranks),
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resets the engine and opens a new run on a problem room
func (s *Session) Start() (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Reset()
	s.profile.RestoreHealth()
	s.runID = uuid.NewString()
	s.active = true
	s.problem = nil
	s.shop = nil

	room, err := s.roomWithRetry(func() (models.Room, error) {
		return s.engine.CreateRoom(models.RoomProblem)
	})
	if err != nil {
		s.active = false
		return Turn{}, err
	}
	log.Printf("User %d started run %s", s.userID, s.runID)
	return s.enter(room), nil
}

// Next moves to a randomly generated room
func (s *Session) Next() (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return Turn{}, ErrNoActiveRun
	}
	if s.problem != nil {
		return Turn{}, ErrProblemPending
	}

	room, err := s.roomWithRetry(s.engine.GenerateRoom)
	if err != nil {
		return Turn{}, err
	}
	return s.enter(room), nil
}

// roomWithRetry builds a room and, while the problem generator fails with a
// retryable error, rebuilds a room of the same type.
func (s *Session) roomWithRetry(generate func() (models.Room, error)) (models.Room, error) {
	room, err := generate()
	for i := 1; err != nil && retryable(err) && i < maxProblemAttempts; i++ {
		room, err = s.engine.CreateRoom(room.Type)
	}
	switch {
	case err == nil:
		return room, nil
	case retryable(err):
		return models.Room{}, fmt.Errorf("%w: %v", ErrNoProblem, err)
	default:
		return models.Room{}, err
	}
}

func retryable(err error) bool {
	return errors.Is(err, problems.ErrNoMatchingTemplate) || errors.Is(err, problems.ErrUnknownCategory)
}

// enter applies the room to the session and describes it
func (s *Session) enter(room models.Room) Turn {
	s.room = room
	s.shop = nil
	turn := Turn{Room: room}

	switch p := room.Payload.(type) {
	case models.ProblemRoom:
		s.present(p.Problem, p.TimeLimit)
	case models.TrapRoom:
		s.present(p.Problem, s.engine.TimeLimit())
	case models.RestRoom:
		turn.Healed = s.profile.Heal(p.HealAmount)
		s.room.Cleared = true
	case models.ShopRoom:
		s.shop = append([]models.Item(nil), p.Items...)
		turn.Shop = p.Items
		s.room.Cleared = true
	case models.TreasureRoom:
		switch t := p.Treasure.(type) {
		case models.CoinTreasure:
			s.profile.Coins += t.Amount
			turn.Coins = t.Amount
		case models.RareItemTreasure:
			item := t.Item
			s.profile.Collect(item)
			turn.Item = &item
		case models.FormulaCardTreasure:
			s.profile.Inventory.FormulaUses++
			turn.Formula = t.Formula
		}
		s.room.Cleared = true
	}

	turn.Problem = s.problem
	turn.TimeLimit = s.timeLimit
	return turn
}

func (s *Session) present(problem *models.Problem, baseLimit int) {
	s.problem = problem
	s.hintShown = false
	s.timeLimit = s.profile.EffectiveTimeLimit(baseLimit)
	s.shownAt = s.now()
}

// Remaining returns the whole seconds left on the countdown
func (s *Session) Remaining() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return 0, ErrNoPendingProblem
	}
	return max(0, s.timeLimit-s.elapsed()), nil
}

func (s *Session) elapsed() int {
	return int(s.now().Sub(s.shownAt) / time.Second)
}

// Submit answers the pending problem. An answer arriving after the countdown
// ran out is handled as a time-up.
func (s *Session) Submit(answer string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(answer) == "" {
		return Outcome{}, ErrEmptyAnswer
	}
	if s.problem == nil {
		return Outcome{}, ErrNoPendingProblem
	}

	used := s.elapsed()
	if used >= s.timeLimit {
		return s.timeUp(), nil
	}

	problem := s.problem
	result := s.engine.ProcessAnswer(strings.TrimSpace(answer), problem.Answer, used, s.timeLimit)
	out := Outcome{Result: result, Expected: problem.Answer}
	out.Coins = s.profile.ApplyResult(result, s.ranks)

	if result.Correct {
		s.room.Cleared = true
		if p, ok := s.room.Payload.(models.ProblemRoom); ok && p.Reward != nil {
			s.profile.ApplyReward(p.Reward, s.ranks)
			out.Reward = p.Reward
		}
		if e, ok := s.profile.RollEquipmentDrop(s.src); ok {
			out.Drop = &e
		}
	} else {
		out.TrapPenalty = s.trapPenalty()
	}

	s.record(problem, answer, result, false, out.Coins)
	s.advance(&out)
	return out, nil
}

// Expire forces the time-up path for the pending problem
func (s *Session) Expire() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return Outcome{}, ErrNoPendingProblem
	}
	return s.timeUp(), nil
}

// ExpireDue runs the time-up path only when the countdown has run out. It
// reports false when nothing was due.
func (s *Session) ExpireDue() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil || s.elapsed() < s.timeLimit {
		return Outcome{}, false
	}
	return s.timeUp(), true
}

// timeUp submits the empty answer: the outcome never carries credit.
func (s *Session) timeUp() Outcome {
	problem := s.problem
	result := s.engine.ProcessAnswer("", problem.Answer, s.timeLimit, s.timeLimit)
	s.profile.ApplyTimeout(result)

	out := Outcome{Result: result, Expected: problem.Answer, TimedOut: true}
	out.TrapPenalty = s.trapPenalty()

	s.record(problem, "", result, true, 0)
	s.advance(&out)
	return out
}

func (s *Session) trapPenalty() int {
	trap, ok := s.room.Payload.(models.TrapRoom)
	if !ok {
		return 0
	}
	s.profile.Damage(trap.Penalty)
	return trap.Penalty
}

// advance clears the pending problem, then ends the run or levels up
func (s *Session) advance(out *Outcome) {
	s.last = s.problem
	s.problem = nil

	switch {
	case s.engine.IsGameOver():
		out.GameOver = true
		s.active = false
		s.saveRun()
	case s.engine.ShouldLevelUp():
		s.engine.LevelUp()
		out.LeveledUp = true
		state := s.engine.State()
		log.Printf("User %d reached dungeon level %d (%s)", s.userID, state.DungeonLevel, state.Difficulty)
	}
	out.State = s.engine.State()
}

func (s *Session) record(problem *models.Problem, given string, result models.AnswerResult, timedOut bool, coins int) {
	if s.store == nil {
		return
	}
	err := s.store.SaveAttempt(models.Attempt{
		UserID:      s.userID,
		RunID:       s.runID,
		Category:    problem.Category,
		Difficulty:  problem.Difficulty,
		Question:    problem.Question,
		Expected:    problem.Answer,
		Given:       given,
		Correct:     result.Correct,
		TimedOut:    timedOut,
		XPGained:    result.XPGained,
		CoinsGained: coins,
		Timestamp:   s.now().Unix(),
	})
	if err != nil {
		log.Printf("Error saving attempt for user %d: %v", s.userID, err)
	}
}

func (s *Session) saveRun() {
	state := s.engine.State()
	log.Printf("User %d run %s ended on dungeon level %d", s.userID, s.runID, state.DungeonLevel)
	if s.store == nil {
		return
	}
	err := s.store.SaveRun(models.RunSummary{
		UserID:       s.userID,
		RunID:        s.runID,
		DungeonLevel: state.DungeonLevel,
		Difficulty:   state.Difficulty,
		EndedAt:      s.now().Unix(),
	})
	if err != nil {
		log.Printf("Error saving run for user %d: %v", s.userID, err)
	}
}

// HintCharge tells what showing a hint cost
type HintCharge int

const (
	// HintXP means the hint cost xp
	HintXP HintCharge = iota
	// HintToken means a hint token was spent
	HintToken
	// HintRepeat means the hint was already paid for on this problem
	HintRepeat
)

// Hint returns the hint of the pending problem. The first request per problem
// consumes a hint token or costs xp; later requests are free.
func (s *Session) Hint() (string, HintCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return "", HintXP, ErrNoPendingProblem
	}
	if s.hintShown {
		return s.problem.Hint, HintRepeat, nil
	}
	s.hintShown = true
	if s.profile.UseHint(s.ranks) {
		return s.problem.Hint, HintToken, nil
	}
	return s.problem.Hint, HintXP, nil
}

// UseCalculator evaluates an expression, spending one calculator use. A
// rejected expression costs nothing.
func (s *Session) UseCalculator(expr string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.Inventory.CalculatorUses <= 0 {
		return 0, player.ErrNoUses
	}
	v, err := calc.Eval(expr)
	if err != nil {
		return 0, err
	}
	return v, s.profile.UseCalculator()
}

// UseFormula spends one formula use and returns the formula card of the
// pending problem's category
func (s *Session) UseFormula() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return nil, ErrNoPendingProblem
	}
	if err := s.profile.UseFormula(); err != nil {
		return nil, err
	}
	return problems.Formulas(s.problem.Category), nil
}

// Problem returns the pending problem, if any
func (s *Session) Problem() (*models.Problem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return nil, false
	}
	p := *s.problem
	return &p, true
}

// LastProblem returns the pending problem or, when none, the last answered one
func (s *Session) LastProblem() (*models.Problem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.problem
	if p == nil {
		p = s.last
	}
	if p == nil {
		return nil, false
	}
	c := *p
	return &c, true
}

// ShopOffer returns the items offered by the current shop room
func (s *Session) ShopOffer() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Item(nil), s.shop...)
}

// BuyShopItem buys the i-th item (0-based) of the current shop room. The
// merchant's stock does not run out.
func (s *Session) BuyShopItem(i int) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.shop) == 0 {
		return models.Item{}, ErrNoShop
	}
	if i < 0 || i >= len(s.shop) {
		return models.Item{}, player.ErrUnknownItem
	}
	item := s.shop[i]
	if err := s.profile.BuyItem(item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Buy purchases a consumable bundle
func (s *Session) Buy(id string) (player.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile.Buy(id)
}

// Equip equips an owned piece of equipment
func (s *Session) Equip(id string) (player.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile.Equip(id)
}

// Profile returns a snapshot of the player profile
func (s *Session) Profile() player.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile.Clone()
}

// Rank returns the rank status for the profile's xp
func (s *Session) Rank() (models.RankStatus, models.NextRankRequirement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.ranks.NextRankRequirement(s.profile.XP)
	return s.ranks.CurrentRank(s.profile.XP), next, ok
}

// State returns a snapshot of the engine state
func (s *Session) State() models.EngineState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.State()
}

// Active reports whether a run is in progress
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

// RunID identifies the current or last run
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runID
}
