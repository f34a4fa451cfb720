package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/mathdungeonbot/player"
	"github.com/korjavin/mathdungeonbot/session"
)

const (
	explainTimeout = 60 * time.Second
	weakestLimit   = 3
)

const helpText = `Math Dungeon commands:

/start - Start a new run
/next - Enter the next room
/hint - Show a hint (uses a hint token or costs 5 XP)
/explain - Ask for a worked explanation of the problem
/state - Show your health, level and inventory
/rank - Show your rank
/stat - Show your statistics
/shop - Open the shop
/buy <id> - Buy a shop item
/equip [id] - Show or equip your equipment
/use calculator <expression> - Spend a calculator use, e.g. /use calculator 12*7+3
/use formula - Spend a formula card to see the formulas for the current problem
/help - Show this message

Any other text is taken as the answer to the current problem.`

// userSession returns the sender's session, reporting failures to the chat
func (b *Bot) userSession(message *tgbotapi.Message) (*session.Session, bool) {
	userID := message.From.ID
	if sess, ok := b.sessions.Lookup(userID); ok {
		return sess, true
	}

	sess, err := b.sessions.Get(userID)
	if err != nil {
		log.Printf("Error getting session for user %d: %v", userID, err)
		b.sendMessage(message.Chat.ID, "Sorry, something went wrong. Please try again later.")
		return nil, false
	}
	log.Printf("Created session for user %d (%d sessions)", userID, b.sessions.Len())
	return sess, true
}

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	turn, err := sess.Start()
	if err != nil {
		log.Printf("Error starting run: %v", err)
		b.sendMessage(message.Chat.ID, "Sorry, the dungeon gate is stuck. Please try /start again.")
		return
	}

	b.sendMessage(message.Chat.ID, welcomeText)
	b.sendTurn(message.Chat.ID, sess, turn)
}

// handleNextCommand handles the /next command
func (b *Bot) handleNextCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	turn, err := sess.Next()
	switch {
	case errors.Is(err, session.ErrProblemPending):
		if p, ok := sess.Problem(); ok {
			b.sendMessage(message.Chat.ID, "Solve this first:\n\n"+p.Question)
		}
		return
	case err != nil:
		b.sendMessage(message.Chat.ID, errorText(err))
		return
	}
	b.sendTurn(message.Chat.ID, sess, turn)
}

func (b *Bot) sendTurn(chatID int64, sess *session.Session, turn session.Turn) {
	if len(turn.Shop) > 0 {
		b.sendKeyboard(chatID, formatTurn(turn), roomShopKeyboard(turn))
		return
	}
	b.sendMessage(chatID, formatTurn(turn))
	if turn.Problem != nil {
		b.startCountdown(chatID, sess, turn.TimeLimit)
	}
}

// handleAnswer treats plain text as an answer to the pending problem
func (b *Bot) handleAnswer(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	out, err := sess.Submit(message.Text)
	if err != nil {
		b.sendMessage(message.Chat.ID, errorText(err))
		return
	}
	b.stopCountdown(message.Chat.ID)
	b.sendMessage(message.Chat.ID, formatOutcome(out))
}

// handleHintCommand handles the /hint command
func (b *Bot) handleHintCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	hint, charge, err := sess.Hint()
	if err != nil {
		b.sendMessage(message.Chat.ID, errorText(err))
		return
	}
	b.sendMessage(message.Chat.ID, formatHint(hint, charge))
}

// handleExplainCommand asks the AI for a worked explanation, cached by question
func (b *Bot) handleExplainCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if b.deepseek == nil {
		b.sendMessage(chatID, "Explanations are not available right now.")
		return
	}

	sess, ok := b.userSession(message)
	if !ok {
		return
	}
	problem, ok := sess.LastProblem()
	if !ok {
		b.sendMessage(chatID, "There is no problem to explain yet. Use /start to enter the dungeon.")
		return
	}

	cached, err := b.db.GetCachedExplanation(problem.Question)
	if err != nil {
		log.Printf("Error retrieving cached explanation: %v", err)
	}
	if cached != "" {
		b.sendMessage(chatID, "📖 "+cached)
		return
	}

	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, "Thinking about this problem, please wait a moment..."))
	if err != nil {
		log.Printf("Error sending initial message: %v", err)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in explanation goroutine: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()

		explanation, err := b.deepseek.ExplainProblem(ctx, problem)
		if err != nil {
			log.Printf("Error calling Deepseek API: %v", err)
			b.editMessage(chatID, sent.MessageID, "Sorry, I couldn't explain this problem. Please try again later.")
			return
		}

		b.editMessage(chatID, sent.MessageID, "📖 "+explanation)

		if err := b.db.CacheExplanation(problem.Question, explanation); err != nil {
			log.Printf("Error caching explanation: %v", err)
		}
	}()
}

// handleStateCommand handles the /state command
func (b *Bot) handleStateCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	text := formatState(sess.State(), sess.Profile(), sess.Active())
	if id := sess.RunID(); sess.Active() && id != "" {
		text += "\n🆔 Run " + id
	}
	if left, err := sess.Remaining(); err == nil {
		text += fmt.Sprintf("\n\n⏳ %d seconds left on the current problem", left)
	}
	b.sendMessage(message.Chat.ID, text)
}

// handleRankCommand handles the /rank command
func (b *Bot) handleRankCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	status, next, hasNext := sess.Rank()
	b.sendMessage(message.Chat.ID, formatRank(sess.Profile().XP, status, next, hasNext))
}

// handleStatCommand handles the /stat command
func (b *Bot) handleStatCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	correct, incorrect, err := b.db.GetUserStats(userID)
	if err != nil {
		log.Printf("Error getting user stats: %v", err)
		b.sendMessage(message.Chat.ID, "Sorry, I couldn't retrieve your statistics. Please try again later.")
		return
	}

	weakest, err := b.db.GetWeakestCategories(userID, weakestLimit)
	if err != nil {
		log.Printf("Error getting weakest categories: %v", err)
	}

	best, hasBest, err := b.db.GetBestRun(userID)
	if err != nil {
		log.Printf("Error getting best run: %v", err)
	}

	b.sendMessage(message.Chat.ID, formatStats(correct, incorrect, weakest, best, hasBest))
}

// handleShopCommand shows the consumable shop and, inside a shop room, the
// merchant's offer
func (b *Bot) handleShopCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	coins := sess.Profile().Coins
	b.sendKeyboard(message.Chat.ID, formatShop(coins), shopKeyboard())

	if offer := sess.ShopOffer(); len(offer) > 0 {
		turn := session.Turn{Shop: offer}
		b.sendKeyboard(message.Chat.ID, "The merchant still has:", roomShopKeyboard(turn))
	}
}

// handleBuyCommand handles /buy <id>
func (b *Bot) handleBuyCommand(message *tgbotapi.Message) {
	id := strings.TrimSpace(message.CommandArguments())
	if id == "" {
		b.sendMessage(message.Chat.ID, "Usage: /buy <id>. Use /shop to see the items.")
		return
	}

	sess, ok := b.userSession(message)
	if !ok {
		return
	}
	item, err := sess.Buy(id)
	if err != nil {
		b.sendMessage(message.Chat.ID, errorText(err))
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("🛒 Bought %s. You have %d coins left.", item.Name, sess.Profile().Coins))
}

// handleEquipCommand lists owned equipment, or equips /equip <id>
func (b *Bot) handleEquipCommand(message *tgbotapi.Message) {
	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	id := strings.TrimSpace(message.CommandArguments())
	if id == "" {
		profile := sess.Profile()
		b.sendKeyboard(message.Chat.ID, formatEquipment(profile), equipKeyboard(profile))
		return
	}

	e, err := sess.Equip(id)
	if err != nil {
		b.sendMessage(message.Chat.ID, errorText(err))
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("🛡 Equipped %s (%s).", e.Name, e.Description))
}

// handleUseCommand spends a calculator or formula use
func (b *Bot) handleUseCommand(message *tgbotapi.Message) {
	tool, arg, _ := strings.Cut(strings.TrimSpace(message.CommandArguments()), " ")

	sess, ok := b.userSession(message)
	if !ok {
		return
	}

	switch strings.ToLower(tool) {
	case "calculator", "calc":
		v, err := sess.UseCalculator(arg)
		if err != nil {
			b.sendMessage(message.Chat.ID, errorText(err))
			return
		}
		b.sendMessage(message.Chat.ID, formatCalculation(arg, v, sess.Profile().Inventory.CalculatorUses))
	case "formula":
		cards, err := sess.UseFormula()
		if err != nil {
			b.sendMessage(message.Chat.ID, errorText(err))
			return
		}
		b.sendMessage(message.Chat.ID, formatFormulas(cards, sess.Profile().Inventory.FormulaUses))
	default:
		b.sendMessage(message.Chat.ID, "Usage: /use calculator <expression> or /use formula")
	}
}

func (b *Bot) buyFromRoom(callback *tgbotapi.CallbackQuery, sess *session.Session, data string) {
	i, err := strconv.Atoi(data)
	if err != nil {
		log.Printf("Invalid shop index in callback: %v", err)
		return
	}

	item, err := sess.BuyShopItem(i)
	if err != nil {
		b.sendCallbackResponse(callback.ID, errorText(err))
		return
	}
	b.sendCallbackResponse(callback.ID, "Bought "+item.Name)
	b.sendMessage(callback.Message.Chat.ID, fmt.Sprintf("🛒 Bought %s for %d coins.", item.Name, item.Price))
}

func shopKeyboard() [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, item := range player.ShopItems {
		label := fmt.Sprintf("%s (%d coins)", item.Name, item.Price)
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackBuy+item.ID),
		))
	}
	return keyboard
}

func roomShopKeyboard(turn session.Turn) [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, item := range turn.Shop {
		label := fmt.Sprintf("%s (%d coins)", item.Name, item.Price)
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackRoom+strconv.Itoa(i)),
		))
	}
	return keyboard
}

func equipKeyboard(profile player.Profile) [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, slot := range player.Slots {
		for _, e := range player.EquipmentForSlot(slot) {
			if !profile.Owned[e.ID] || profile.Equipped[slot] == e.ID {
				continue
			}
			keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Equip "+e.Name, callbackEquip+e.ID),
			))
		}
	}
	return keyboard
}
