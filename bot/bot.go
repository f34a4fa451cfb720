package bot

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/mathdungeonbot/ai"
	"github.com/korjavin/mathdungeonbot/config"
	"github.com/korjavin/mathdungeonbot/database"
	"github.com/korjavin/mathdungeonbot/session"
)

// Bot represents the Telegram bot
type Bot struct {
	api      *tgbotapi.BotAPI
	db       *database.DB
	deepseek *ai.DeepseekClient // nil when explanations are disabled
	sessions *session.Manager

	timersMu sync.Mutex
	timers   map[int64]*time.Timer // countdown per chat
}

const (
	cmdStart   = "start"
	cmdNext    = "next"
	cmdHint    = "hint"
	cmdExplain = "explain"
	cmdState   = "state"
	cmdRank    = "rank"
	cmdStat    = "stat"
	cmdShop    = "shop"
	cmdBuy     = "buy"
	cmdEquip   = "equip"
	cmdUse     = "use"
	cmdHelp    = "help"

	callbackBuy   = "buy:"
	callbackRoom  = "room:"
	callbackEquip = "equip:"
)

// New creates a new bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create bot API
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	// Set bot debugging mode
	botAPI.Debug = cfg.Debug

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var deepseek *ai.DeepseekClient
	if cfg.ExplanationsEnabled() {
		deepseek = ai.NewDeepseekClient(cfg.DeepseekAPIKey)
	} else {
		log.Println("DEEPSEEK_API_KEY is not set, /explain is disabled")
	}

	if cfg.Seed != 0 {
		log.Printf("Using fixed game seed %d", cfg.Seed)
	}

	return &Bot{
		api:      botAPI,
		db:       db,
		deepseek: deepseek,
		sessions: session.NewManager(db, cfg.Seed),
		timers:   make(map[int64]*time.Timer),
	}, nil
}

// Start starts the bot and listens for updates
func (b *Bot) Start() {
	log.Println("Starting bot polling...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
		} else if update.Message != nil {
			b.handleMessage(update.Message)
		}
	}
}

// Close releases the database
func (b *Bot) Close() error {
	b.api.StopReceivingUpdates()
	return b.db.Close()
}

// handleMessage processes incoming messages
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	log.Printf("Received message from %s (ID: %d): %s", message.From.UserName, message.From.ID, message.Text)

	if !message.IsCommand() {
		b.handleAnswer(message)
		return
	}

	switch message.Command() {
	case cmdStart:
		b.handleStartCommand(message)
	case cmdNext:
		b.handleNextCommand(message)
	case cmdHint:
		b.handleHintCommand(message)
	case cmdExplain:
		b.handleExplainCommand(message)
	case cmdState:
		b.handleStateCommand(message)
	case cmdRank:
		b.handleRankCommand(message)
	case cmdStat:
		b.handleStatCommand(message)
	case cmdShop:
		b.handleShopCommand(message)
	case cmdBuy:
		b.handleBuyCommand(message)
	case cmdEquip:
		b.handleEquipCommand(message)
	case cmdUse:
		b.handleUseCommand(message)
	case cmdHelp:
		b.sendMessage(message.Chat.ID, helpText)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /start to enter the dungeon or /help for the list of commands.")
	}
}

// handleCallback processes callback queries from inline buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	log.Printf("Handling callback from user %s (ID: %d) with data: %s",
		callback.From.UserName, callback.From.ID, callback.Data)

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	sess, err := b.sessions.Get(callback.From.ID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		b.sendCallbackResponse(callback.ID, "Something went wrong")
		return
	}

	switch {
	case strings.HasPrefix(callback.Data, callbackBuy):
		item, err := sess.Buy(strings.TrimPrefix(callback.Data, callbackBuy))
		if err != nil {
			b.sendCallbackResponse(callback.ID, errorText(err))
			return
		}
		b.sendCallbackResponse(callback.ID, "Bought "+item.Name)
		b.sendMessage(chatID, fmt.Sprintf("🛒 Bought %s. You have %d coins left.", item.Name, sess.Profile().Coins))
	case strings.HasPrefix(callback.Data, callbackRoom):
		b.buyFromRoom(callback, sess, strings.TrimPrefix(callback.Data, callbackRoom))
	case strings.HasPrefix(callback.Data, callbackEquip):
		e, err := sess.Equip(strings.TrimPrefix(callback.Data, callbackEquip))
		if err != nil {
			b.sendCallbackResponse(callback.ID, errorText(err))
			return
		}
		b.sendCallbackResponse(callback.ID, "Equipped "+e.Name)
		b.sendMessage(chatID, fmt.Sprintf("🛡 Equipped %s (%s).", e.Name, e.Description))
	default:
		log.Printf("Invalid callback prefix: %s", callback.Data)
	}
}

// startCountdown arms the time-up timer for the chat's pending problem
func (b *Bot) startCountdown(chatID int64, sess *session.Session, limit int) {
	b.timersMu.Lock()
	defer b.timersMu.Unlock()

	if t, ok := b.timers[chatID]; ok {
		t.Stop()
	}
	b.timers[chatID] = time.AfterFunc(time.Duration(limit)*time.Second, func() {
		out, due := sess.ExpireDue()
		if !due {
			return
		}
		log.Printf("Countdown ran out in chat %d", chatID)
		b.sendMessage(chatID, formatOutcome(out))
	})
}

func (b *Bot) stopCountdown(chatID int64) {
	b.timersMu.Lock()
	defer b.timersMu.Unlock()

	if t, ok := b.timers[chatID]; ok {
		t.Stop()
		delete(b.timers, chatID)
	}
}

// sendMessage sends a text message
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendKeyboard sends a text message with an inline keyboard
func (b *Bot) sendKeyboard(chatID int64, text string, keyboard [][]tgbotapi.InlineKeyboardButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending keyboard message: %v", err)
	}
}

// sendCallbackResponse sends a response to a callback query
func (b *Bot) sendCallbackResponse(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error sending callback response: %v", err)
	}
}

// editMessage edits an existing message. Text that looks like markdown is
// sent as MarkdownV2 with a plain text fallback.
func (b *Bot) editMessage(chatID int64, messageID int, newText string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, newText)

	if looksLikeMarkdown(newText) {
		edit.Text = escapeMarkdown(newText)
		edit.ParseMode = tgbotapi.ModeMarkdownV2
	}

	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)

		if edit.ParseMode == tgbotapi.ModeMarkdownV2 {
			log.Printf("Markdown editing failed, falling back to plain text")
			plainEdit := tgbotapi.NewEditMessageText(chatID, messageID, newText)
			if _, err := b.api.Send(plainEdit); err != nil {
				log.Printf("Plain text edit fallback also failed: %v", err)
			}
		}
	}
}

func looksLikeMarkdown(text string) bool {
	return strings.Contains(text, "```") ||
		strings.Contains(text, "**") ||
		strings.Contains(text, "##") ||
		strings.Contains(text, "`")
}

// escapeMarkdown escapes special characters for Telegram's MarkdownV2 format
func escapeMarkdown(text string) string {
	// Characters that need escaping in MarkdownV2: _*[]()~`>#+-=|{}.!
	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}

	// Don't escape characters within code blocks
	parts := strings.Split(text, "```")
	for i := 0; i < len(parts); i++ {
		if i%2 == 0 {
			for _, char := range specialChars {
				parts[i] = strings.ReplaceAll(parts[i], char, "\\"+char)
			}
		}
	}

	return strings.Join(parts, "```")
}
