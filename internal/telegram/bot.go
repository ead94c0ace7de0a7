package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/notify"
	"trading-dashboard/lib/helpers"
)

var variantIcons = map[notify.Variant]string{
	notify.VariantDefault:     "ℹ️",
	notify.VariantSuccess:     "✅",
	notify.VariantDestructive: "❌",
}

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	if c.ChatID == 0 {
		return nil, errors.New("telegram chat id is not set")
	}

	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug
	log.Debugf("telegram notifications enabled as %s", bot.Self.UserName)

	return &Bot{api: bot, Config: c}, nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.api.Send(msg)
	return errors.Wrapf(err, "could not send message to %d", m.ChatID)
}

// Deliver forwards a toast to the configured chat
func (b *Bot) Deliver(t notify.Toast) error {
	return b.SendMessage(Message{ChatID: b.Config.ChatID, Text: FormatToast(t)})
}

// FormatToast renders a toast as MarkdownV2
func FormatToast(t notify.Toast) string {
	icon, ok := variantIcons[t.Variant]
	if !ok {
		icon = variantIcons[notify.VariantDefault]
	}

	text := fmt.Sprintf("%s *%s*", icon, helpers.EscapeMarkdownV2(t.Title))
	if t.Description != "" {
		text += "\n" + helpers.EscapeMarkdownV2(t.Description)
	}
	return text
}
