package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/korjavin/mathdungeonbot/calc"
	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/player"
	"github.com/korjavin/mathdungeonbot/session"
)

const welcomeText = `Welcome to the Math Dungeon! 🗝

Every room holds a math problem, a treasure, a merchant, a resting place or a trap. Type your answer as a plain message before the time runs out. Ten cleared rooms take you one level deeper, and every few levels the problems get harder.

Use /help to see all commands.`

// errorText turns domain errors into chat replies
func errorText(err error) string {
	switch {
	case errors.Is(err, session.ErrNoActiveRun):
		return "You are not in the dungeon. Use /start to begin a run."
	case errors.Is(err, session.ErrNoPendingProblem):
		return "There is no problem waiting for an answer. Use /next to enter the next room."
	case errors.Is(err, session.ErrProblemPending):
		return "Answer the current problem first."
	case errors.Is(err, session.ErrEmptyAnswer):
		return "Please type an answer."
	case errors.Is(err, session.ErrNoShop):
		return "There is no merchant here."
	case errors.Is(err, player.ErrInsufficientCoins):
		return "Not enough coins."
	case errors.Is(err, player.ErrUnknownItem):
		return "Unknown item. Use /shop to see what is for sale."
	case errors.Is(err, player.ErrUnknownEquipment):
		return "Unknown equipment. Use /equip to see yours."
	case errors.Is(err, player.ErrNotOwned):
		return "You don't own that piece yet."
	case errors.Is(err, player.ErrNoUses):
		return "You have no uses left. Buy more with /shop."
	case errors.Is(err, calc.ErrInvalidExpression):
		return "The calculator can't read that. Try something like 12*7+3 or sqrt(2)."
	case errors.Is(err, calc.ErrNotFinite):
		return "The result is not a finite number."
	default:
		return "Sorry, something went wrong. Please try again later."
	}
}

func formatTurn(turn session.Turn) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚪 Level %d: ", turn.Room.Level)

	switch p := turn.Room.Payload.(type) {
	case models.ProblemRoom:
		sb.WriteString("a problem room.\n\n")
		writeProblem(&sb, p.Problem, turn.TimeLimit)
	case models.TrapRoom:
		fmt.Fprintf(&sb, "a trap! %s Failing costs %d extra health.\n\n", p.Description, p.Penalty)
		writeProblem(&sb, p.Problem, turn.TimeLimit)
	case models.RestRoom:
		fmt.Fprintf(&sb, "%s\n\n❤️ Healed %d health.", p.Description, turn.Healed)
	case models.TreasureRoom:
		fmt.Fprintf(&sb, "%s\n\n", p.Description)
		switch {
		case turn.Item != nil:
			fmt.Fprintf(&sb, "💎 You found %s (%s).", turn.Item.Name, turn.Item.Rarity)
		case turn.Formula != "":
			fmt.Fprintf(&sb, "📜 You found the formula card %s (+1 formula use).", turn.Formula)
		default:
			fmt.Fprintf(&sb, "💰 You found %d coins.", turn.Coins)
		}
	case models.ShopRoom:
		fmt.Fprintf(&sb, "%s\n", p.Description)
		for _, item := range turn.Shop {
			fmt.Fprintf(&sb, "\n• %s (%s, %s) - %d coins", item.Name, item.Rarity, formatUses(item), item.Price)
		}
	}
	return sb.String()
}

func writeProblem(sb *strings.Builder, p *models.Problem, timeLimit int) {
	fmt.Fprintf(sb, "📐 %s, difficulty %d\n\n%s\n\n⏳ You have %d seconds.", p.Category.DisplayName(), p.Difficulty, p.Question, timeLimit)
}

func formatHint(hint string, charge session.HintCharge) string {
	switch charge {
	case session.HintToken:
		return fmt.Sprintf("💡 %s (hint token used)", hint)
	case session.HintRepeat:
		return fmt.Sprintf("💡 %s", hint)
	default:
		return fmt.Sprintf("💡 %s (-%d XP)", hint, player.HintXPCost)
	}
}

func formatCalculation(expr string, v float64, usesLeft int) string {
	return fmt.Sprintf("🧮 %s = %s\n%d calculator uses left", strings.TrimSpace(expr), strconv.FormatFloat(v, 'g', 10, 64), usesLeft)
}

func formatFormulas(cards []string, usesLeft int) string {
	var sb strings.Builder
	sb.WriteString("📜 Formula card:\n")
	for _, c := range cards {
		sb.WriteString("\n• " + c)
	}
	fmt.Fprintf(&sb, "\n\n%d formula uses left", usesLeft)
	return sb.String()
}

func formatUses(item models.Item) string {
	if item.UnlimitedUses() {
		return "unlimited uses"
	}
	return fmt.Sprintf("%d uses", item.Uses)
}

func formatOutcome(out session.Outcome) string {
	var sb strings.Builder

	switch {
	case out.TimedOut:
		fmt.Fprintf(&sb, "⌛ Time is up! The answer was %s.", out.Expected)
	case out.Result.Correct:
		fmt.Fprintf(&sb, "✅ Correct! +%d XP, +%d coins", out.Result.XPGained, out.Coins)
		if out.Result.TimeBonus > 0 {
			fmt.Fprintf(&sb, " (speed bonus %d)", out.Result.TimeBonus)
		}
		sb.WriteString(".")
	default:
		fmt.Fprintf(&sb, "❌ Wrong. The answer was %s.", out.Expected)
	}

	if out.Result.HealthChange != 0 {
		fmt.Fprintf(&sb, "\n❤️ %d health", out.Result.HealthChange)
	}
	if out.TrapPenalty > 0 {
		fmt.Fprintf(&sb, "\n🪤 The trap takes %d more health.", out.TrapPenalty)
	}
	if out.Reward != nil {
		sb.WriteString("\n🎁 Room reward: " + formatReward(out.Reward))
	}
	if out.Drop != nil {
		fmt.Fprintf(&sb, "\n🛡 You found %s (%s). Use /equip to wear it.", out.Drop.Name, out.Drop.Description)
	}

	st := out.State
	switch {
	case out.GameOver:
		fmt.Fprintf(&sb, "\n\n💀 You have fallen on dungeon level %d. Use /start to try again.", st.DungeonLevel)
	case out.LeveledUp:
		fmt.Fprintf(&sb, "\n\n⬇️ You descend to dungeon level %d (%s). Use /next to continue.", st.DungeonLevel, st.Difficulty)
	default:
		fmt.Fprintf(&sb, "\n\nHealth %d/%d, rooms cleared %d/10. Use /next to continue.", st.PlayerHealth, st.MaxHealth, st.RoomsCleared)
	}
	return sb.String()
}

func formatReward(reward models.Reward) string {
	switch r := reward.(type) {
	case models.XPReward:
		return fmt.Sprintf("+%d XP", r.Amount)
	case models.CoinReward:
		return fmt.Sprintf("+%d coins", r.Amount)
	case models.HealthReward:
		return fmt.Sprintf("+%d health", r.Amount)
	case models.ItemReward:
		return fmt.Sprintf("%s (%s)", r.Item.Name, r.Item.Rarity)
	default:
		return string(reward.RewardType())
	}
}

func formatState(st models.EngineState, p player.Profile, active bool) string {
	var sb strings.Builder

	if active {
		fmt.Fprintf(&sb, "🏰 Dungeon level %d (%s), rooms cleared %d/10\n", st.DungeonLevel, st.Difficulty, st.RoomsCleared)
		fmt.Fprintf(&sb, "❤️ Run health %d/%d\n", st.PlayerHealth, st.MaxHealth)
	} else {
		sb.WriteString("🏰 Not in the dungeon. Use /start to begin a run.\n")
	}
	fmt.Fprintf(&sb, "🧍 Health %d/%d, %d XP (%s), %d coins\n", p.Health, p.MaxHealth, p.XP, p.Rank, p.Coins)
	fmt.Fprintf(&sb, "🔥 Streak %d, %d problems, %d%% accuracy\n", p.Streak, p.TotalProblems, p.Accuracy)
	fmt.Fprintf(&sb, "🎒 Calculator %d, formula cards %d, hint tokens %d",
		p.Inventory.CalculatorUses, p.Inventory.FormulaUses, p.Inventory.HintUses)

	if len(p.Items) > 0 {
		names := make([]string, 0, len(p.Items))
		for _, item := range p.Items {
			names = append(names, item.Name)
		}
		fmt.Fprintf(&sb, "\n💎 Items: %s", strings.Join(names, ", "))
	}
	return sb.String()
}

func formatRank(xp int, status models.RankStatus, next models.NextRankRequirement, hasNext bool) string {
	text := fmt.Sprintf("🎓 %s (%d XP), %.0f%% through this rank", status.Name, xp, status.Progress)
	if hasNext {
		text += fmt.Sprintf("\n%d XP to %s", next.XPNeeded, next.NextRank)
	} else {
		text += "\nYou have reached the highest rank."
	}
	return text
}

func formatStats(correct, incorrect int, weakest []models.CategoryMisses, best models.RunSummary, hasBest bool) string {
	total := correct + incorrect
	var accuracy float64
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	text := fmt.Sprintf(`📊 Your Statistics:

Problems Attempted: %d
Correct Answers: %d ✅
Incorrect Answers: %d ❌
Accuracy: %.1f%%`, total, correct, incorrect, accuracy)

	if hasBest {
		text += fmt.Sprintf("\n\nDeepest run: level %d (%s)", best.DungeonLevel, best.Difficulty)
	}

	if len(weakest) > 0 {
		text += "\n\nMost Challenging Categories:\n"
		for i, w := range weakest {
			text += fmt.Sprintf("%d. %s: %d misses\n", i+1, w.Category.DisplayName(), w.Misses)
		}
	}
	return text
}

func formatShop(coins int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 Shop (you have %d coins):\n", coins)
	for _, item := range player.ShopItems {
		fmt.Fprintf(&sb, "\n• %s: %s, %d coins (/buy %s)", item.Name, item.Description, item.Price, item.ID)
	}
	return sb.String()
}

func formatEquipment(p player.Profile) string {
	var sb strings.Builder
	sb.WriteString("🛡 Equipment:\n")
	for _, slot := range player.Slots {
		equipped := "nothing"
		if e, ok := player.EquipmentByID(p.Equipped[slot]); ok {
			equipped = fmt.Sprintf("%s (%s)", e.Name, e.Description)
		}
		fmt.Fprintf(&sb, "\n%s slot: %s", slot, equipped)
	}

	var owned []string
	for _, slot := range player.Slots {
		for _, e := range player.EquipmentForSlot(slot) {
			if p.Owned[e.ID] {
				owned = append(owned, fmt.Sprintf("%s [%s]", e.Name, e.ID))
			}
		}
	}
	if len(owned) == 0 {
		sb.WriteString("\n\nYou own no equipment yet. Correct answers sometimes drop some.")
	} else {
		sb.WriteString("\n\nOwned: " + strings.Join(owned, ", "))
	}
	return sb.String()
}
