package services

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"
)

// NotificationService delivers analysis commentary to Telegram chats. With
// no bot token configured it becomes a no-op, so local runs work without
// Telegram credentials.
type NotificationService struct {
	bot     *bot.Bot
	chatIDs []int64
	logger  *logrus.Logger
}

// NewNotificationService creates the Telegram notifier. An empty token
// disables delivery.
func NewNotificationService(botToken string, chatIDs []int64, logger *logrus.Logger) *NotificationService {
	var telegramBot *bot.Bot
	if botToken != "" {
		b, err := bot.New(botToken)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Telegram bot, notifications disabled")
		} else {
			telegramBot = b
		}
	}

	return &NotificationService{
		bot:     telegramBot,
		chatIDs: chatIDs,
		logger:  logger,
	}
}

// Enabled reports whether messages will actually be sent.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil && len(ns.chatIDs) > 0
}

// SendCommentary pushes one commentary text to every configured chat.
// Delivery failures for individual chats are logged and do not stop the
// remaining sends; the last failure is returned.
func (ns *NotificationService) SendCommentary(ctx context.Context, symbol, commentary string) error {
	if !ns.Enabled() {
		ns.logger.WithField("symbol", symbol).Debug("Telegram notifications disabled, skipping commentary")
		return nil
	}

	var lastErr error
	for _, chatID := range ns.chatIDs {
		_, err := ns.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   commentary,
		})
		if err != nil {
			ns.logger.WithError(err).WithFields(logrus.Fields{
				"symbol":  symbol,
				"chat_id": chatID,
			}).Error("Failed to send analysis commentary")
			lastErr = fmt.Errorf("failed to notify chat %d: %w", chatID, err)
			continue
		}
		ns.logger.WithFields(logrus.Fields{
			"symbol":  symbol,
			"chat_id": chatID,
		}).Info("Sent analysis commentary")
	}

	return lastErr
}
