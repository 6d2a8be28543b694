package tg

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotSender — адаптер Telegram-бота под service.Sender.
type BotSender struct {
	bot *tgbotapi.BotAPI
}

func NewBotSender(bot *tgbotapi.BotAPI) *BotSender {
	return &BotSender{bot: bot}
}

func (s *BotSender) Send(chatID int64, text string) error {
	_, err := Send(s.bot, tgbotapi.NewMessage(chatID, text))
	return err
}
