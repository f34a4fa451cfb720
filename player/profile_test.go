package player

import (
	"errors"
	"testing"

	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/progression"
	"github.com/korjavin/mathdungeonbot/random"
)

func TestApplyResultCorrect(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.XP = 950

	coins := p.ApplyResult(models.AnswerResult{Correct: true, TimeBonus: 25, XPGained: 75, CoinsGained: 15}, ranks)
	if coins != 15 || p.Coins != 15 {
		t.Fatalf("expected 15 coins credited, got %d (profile %d)", coins, p.Coins)
	}
	if p.XP != 1025 {
		t.Fatalf("expected 1025 xp, got %d", p.XP)
	}
	if p.Rank != "Algebra Apprentice" {
		t.Fatalf("expected rank up to Algebra Apprentice, got %q", p.Rank)
	}
	if p.NextRankXP != 3000 {
		t.Fatalf("expected next rank threshold 3000, got %d", p.NextRankXP)
	}
	if p.Streak != 1 || p.TotalProblems != 1 || p.Accuracy != 100 {
		t.Fatalf("unexpected bookkeeping %+v", p)
	}
}

func TestApplyResultIncorrect(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.Streak = 4
	p.TotalProblems = 3
	p.Accuracy = 100

	p.ApplyResult(models.AnswerResult{HealthChange: -15, StreakBroken: true}, ranks)
	if p.Health != 85 {
		t.Fatalf("expected 85 health, got %d", p.Health)
	}
	if p.Streak != 0 {
		t.Fatalf("expected streak reset, got %d", p.Streak)
	}
	if p.Accuracy != 75 || p.TotalProblems != 4 {
		t.Fatalf("expected 75%% accuracy over 4, got %d over %d", p.Accuracy, p.TotalProblems)
	}
}

func TestApplyTimeoutGivesNoCredit(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.Streak = 2
	p.ApplyTimeout(models.AnswerResult{XPGained: 50, CoinsGained: 10, HealthChange: -15, StreakBroken: true})
	if p.XP != 0 || p.Coins != 0 {
		t.Fatalf("timeouts must not credit rewards: %+v", p)
	}
	if p.Health != 85 || p.Streak != 0 || p.TotalProblems != 1 || p.Accuracy != 0 {
		t.Fatalf("unexpected profile after timeout %+v", p)
	}
}

func TestTerminalRankNextXP(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.XP = 59990
	p.ApplyResult(models.AnswerResult{Correct: true, XPGained: 75}, ranks)
	if p.Rank != "Theoretical Titan" || p.NextRankXP != p.XP {
		t.Fatalf("expected terminal rank with nextRankXP=xp, got %q %d", p.Rank, p.NextRankXP)
	}
}

func TestEquipmentBonuses(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)

	if _, err := p.Equip("coins3"); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	if _, err := p.Equip("nope"); !errors.Is(err, ErrUnknownEquipment) {
		t.Fatalf("expected ErrUnknownEquipment, got %v", err)
	}

	for _, id := range []string{"health2", "time3", "coins1"} {
		if err := p.Grant(id); err != nil {
			t.Fatalf("Grant(%s): %v", id, err)
		}
		if _, err := p.Equip(id); err != nil {
			t.Fatalf("Equip(%s): %v", id, err)
		}
	}

	if got := p.EffectiveMaxHealth(); got != 120 {
		t.Fatalf("expected 120 max health, got %d", got)
	}
	if got := p.EffectiveTimeLimit(72); got != 102 {
		t.Fatalf("expected 102 seconds, got %d", got)
	}
	if got := p.EffectiveCoins(15); got != 18 {
		t.Fatalf("expected floor(15*1.25)=18 coins, got %d", got)
	}
}

func TestEquipHealthClampsCurrentHealth(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	_ = p.Grant("health3")
	_ = p.Grant("health1")
	_, _ = p.Equip("health3")
	p.Heal(100)
	if p.Health != 130 {
		t.Fatalf("expected 130 health, got %d", p.Health)
	}
	_, _ = p.Equip("health1")
	if p.Health != 110 || p.MaxHealth != 110 {
		t.Fatalf("expected health clamped to 110, got %d/%d", p.Health, p.MaxHealth)
	}
}

func TestBuy(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.Coins = 120

	if _, err := p.Buy("hint_uses"); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if p.Coins != 20 || p.Inventory.HintUses != 2 {
		t.Fatalf("unexpected profile after purchase: coins %d hints %d", p.Coins, p.Inventory.HintUses)
	}
	if _, err := p.Buy("calc_uses"); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	if _, err := p.Buy("gold"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestUseHint(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.XP = 3
	p.Inventory.HintUses = 1

	if !p.UseHint(ranks) {
		t.Fatal("expected the hint token to be used")
	}
	if p.XP != 3 {
		t.Fatalf("token hints are free, xp changed to %d", p.XP)
	}
	if p.UseHint(ranks) {
		t.Fatal("expected no token left")
	}
	if p.XP != 0 {
		t.Fatalf("expected xp clamped at 0, got %d", p.XP)
	}
}

func TestConsumableUses(t *testing.T) {
	p := NewProfile(progression.New())
	if err := p.UseCalculator(); !errors.Is(err, ErrNoUses) {
		t.Fatalf("expected ErrNoUses, got %v", err)
	}
	p.Inventory.FormulaUses = 1
	if err := p.UseFormula(); err != nil {
		t.Fatalf("UseFormula returned error: %v", err)
	}
	if p.Inventory.FormulaUses != 0 {
		t.Fatalf("expected formula uses consumed, got %d", p.Inventory.FormulaUses)
	}
}

func TestBuyItemFromShopRoom(t *testing.T) {
	p := NewProfile(progression.New())
	p.Coins = 30
	item := models.Item{Name: "Hint Scroll", Rarity: models.RarityCommon, Uses: 3, Price: 25}
	if err := p.BuyItem(item); err != nil {
		t.Fatalf("BuyItem returned error: %v", err)
	}
	if p.Coins != 5 || len(p.Items) != 1 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if err := p.BuyItem(item); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
}

func TestRollEquipmentDrop(t *testing.T) {
	p := NewProfile(progression.New())
	if _, ok := p.RollEquipmentDrop(random.NewFixed(0.5)); ok {
		t.Fatal("0.5 must not pass a 30% drop chance")
	}

	e, ok := p.RollEquipmentDrop(random.NewFixed(0.1, 0.5, 0.9))
	if !ok {
		t.Fatal("expected a drop")
	}
	if e.ID != "time3" || !p.Owned["time3"] {
		t.Fatalf("expected Temporal Mastery to drop, got %+v", e)
	}
}

func TestApplyReward(t *testing.T) {
	ranks := progression.New()
	p := NewProfile(ranks)
	p.Health = 90
	p.Owned["coins2"] = true
	if _, err := p.Equip("coins2"); err != nil {
		t.Fatalf("equip: %v", err)
	}

	p.ApplyReward(models.XPReward{Amount: 1200}, ranks)
	p.ApplyReward(models.CoinReward{Amount: 40}, ranks)
	p.ApplyReward(models.HealthReward{Amount: 30}, ranks)
	p.ApplyReward(models.ItemReward{Item: models.Item{Name: "Ruler", Rarity: models.RarityCommon, Uses: 5}}, ranks)

	if p.XP != 1200 || p.Rank != "Algebra Apprentice" {
		t.Fatalf("expected 1200 xp as Algebra Apprentice, got %d %q", p.XP, p.Rank)
	}
	if p.Coins != 60 {
		t.Fatalf("expected coin bonus to apply (60), got %d", p.Coins)
	}
	if p.Health != 100 {
		t.Fatalf("expected heal capped at 100, got %d", p.Health)
	}
	if len(p.Items) != 1 || p.Items[0].Name != "Ruler" {
		t.Fatalf("expected the ruler to be collected, got %+v", p.Items)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewProfile(progression.New())
	p.Owned["time1"] = true
	p.Collect(models.Item{Name: "Ruler"})

	c := p.Clone()
	c.Owned["time2"] = true
	c.Equipped[SlotTime] = "time1"
	c.Items[0].Name = "Compass"

	if p.Owned["time2"] || p.Equipped[SlotTime] != "" || p.Items[0].Name != "Ruler" {
		t.Fatal("clone shares state with the original profile")
	}
}
