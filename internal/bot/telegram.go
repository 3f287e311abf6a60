package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrNoChatID = errors.New("chat ID not set")

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
	logger  *slog.Logger
}

func NewTelegramBot(token string, chatID int64, manager Manager, logger *slog.Logger) (*TelegramBot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(manager),
		chatID:  chatID,
		logger:  logger,
	}, nil
}

// Start answers commands from the configured chat until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	t.logger.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if t.chatID != 0 && update.Message.Chat.ID != t.chatID {
				t.logger.Warn("Ignoring command from unknown chat", "chat_id", update.Message.Chat.ID)
				continue
			}

			t.logger.Debug("Handling command", "command", update.Message.Command())
			msg := t.handler.HandleCommand(ctx, update)
			if _, err := t.bot.Send(msg); err != nil {
				t.logger.Error("Error sending message", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		t.logger.Error("Chat ID not set")
		return ErrNoChatID
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	_, err := t.bot.Send(msg)
	if err != nil {
		t.logger.Error("Error sending message", "error", err)
	}
	return err
}
