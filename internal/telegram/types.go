package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotConfig configuration of the bot
type BotConfig struct {
	Token  string
	ChatID int64
	Debug  bool
}

// sender is the part of tgbotapi.BotAPI the notifier needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot forwards dashboard notifications to one telegram chat
type Bot struct {
	api    sender
	Config BotConfig
}

// Message a telegram message struct
type Message struct {
	ChatID int64
	Text   string
}
