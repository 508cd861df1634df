package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/b8394edf/calculator/arith"
	"github.com/b8394edf/calculator/engine"
	"github.com/b8394edf/calculator/keypad"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
	ErrUnknownButton  = errors.New("unknown keypad button")
)

type Bot struct {
	mc         *Memcached[engine.State]
	api        *tgbotapi.BotAPI
	config     *Config
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	logger     *slog.Logger
}

func LoadBot(config *Config, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:    api,
		config: config,
		logger: logger,
		isDone: make(chan struct{}),
		mc: NewMemcached[engine.State](
			config.MemcachedTTLTimeout,
			config.MemcachedCleanupTimeout,
		),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get started.\n",
			"Note: the session expires after",
			config.MemcachedTTLTimeout,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open new session.",
			"/help - send this message.",
		}, "\n"),
	}, nil
}

func (b *Bot) Run() error {
	if b.isStarted.Load() {
		return ErrAlreadyStarted
	}
	b.isStarted.Store(true)
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.mc.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Error("failed to handle callback", "error", err)
				continue
			}
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Error("failed to handle command", "error", err)
		}
	}

	return ErrClosed
}

// advance resolves one callback payload against the keypad and feeds it to
// the session's engine.
func advance(state engine.State, data string) (engine.State, error) {
	k, ok := keypad.Lookup(data)
	if !ok {
		return state, fmt.Errorf("%w: %q", ErrUnknownButton, data)
	}
	return engine.Apply(state, k)
}

// viewChanged reports whether the rendered message would differ. The shell
// shows the display text plus a keyboard derived from the armed operation,
// mode and unit; Telegram rejects edits that change neither.
func viewChanged(prev, next engine.State) bool {
	return prev.Display != next.Display ||
		prev.Operation != next.Operation ||
		prev.Mode != next.Mode ||
		prev.Unit != next.Unit
}

// keyboardFor renders the session keypad as an inline keyboard; button
// payloads are the key ids the engine understands.
func keyboardFor(state engine.State) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 8)
	for _, row := range keypad.Layout(state) {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				button.Label,
				button.Key.ID,
			))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) createKeyboard(chatID int64, state engine.State) error {
	msg := tgbotapi.NewMessage(chatID, state.Display)
	msg.ReplyMarkup = keyboardFor(state)

	_, err := b.api.Send(msg)
	if err != nil {
		return err
	}
	return nil
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, state engine.State) error {
	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		state.Display,
	)
	markup := keyboardFor(state)
	edit.ReplyMarkup = &markup

	if _, err := b.api.Send(edit); err != nil {
		return err
	}
	return nil
}

// expireKeyboard replaces a dead session's keypad with a plain notice;
// editing without a markup drops the buttons.
func (b *Bot) expireKeyboard(callback *tgbotapi.CallbackQuery) error {
	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		"Your session has expired, please /open a new one.",
	)

	if _, err := b.api.Send(edit); err != nil {
		return err
	}
	return nil
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	switch command.Text {
	case "/start":
		return b.createMessage(command.Chat.ID, b.welcome)
	case "/help":
		return b.createMessage(command.Chat.ID, b.help)
	case "/open":
		key := sessionKey(command.Chat.ID, command.From.ID)

		if _, ok := b.mc.Get(key); ok {
			return b.createMessage(
				command.Chat.ID,
				"Your session is not expired!",
			)
		}

		state := engine.New()
		err := b.createKeyboard(command.Chat.ID, state)
		if err == nil {
			b.mc.Set(key, state)
		}
		return err
	default:
		return b.createMessage(command.Chat.ID, "Unknown command. Try /help")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return err
	}

	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)

	state, ok := b.mc.Get(key)
	if !ok {
		if err := b.expireKeyboard(callback); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	next, err := advance(state, callback.Data)
	if err != nil {
		// Domain faults advance the session to its error display;
		// anything else never came from our keypad.
		if !errors.Is(err, arith.ErrDomain) {
			return err
		}
		b.logger.Debug("arithmetic fault",
			"chat", callback.Message.Chat.ID,
			"key", callback.Data,
			"error", err,
		)
	}

	if viewChanged(state, next) {
		if err := b.updateKeyboard(callback, next); err != nil {
			return err
		}
	}
	b.mc.Set(key, next)
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.mc.Shutdown(ctx)
	b.api.StopReceivingUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrMemcachedClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.mc.Close()
	b.api.StopReceivingUpdates()
	<-b.isDone

	if errors.Is(err, ErrMemcachedClosed) {
		return ErrClosed
	}
	return err
}
