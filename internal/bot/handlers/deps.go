package handlers

import (
	"github.com/Spok95/telegram-event-bot/internal/repo"
	"github.com/Spok95/telegram-event-bot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Deps — всё, что нужно обработчикам. Собирается один раз в main.
type Deps struct {
	Bot          *tgbotapi.BotAPI
	Access       *service.AccessService
	Notify       *service.NotifyService
	Participants *repo.Participants
	Readers      *repo.BibleReaders
	ROE          *repo.ROESessions
	AdminIDs     []int64
	Lang         string
	ExportDir    string
	Log          *zap.SugaredLogger
}

func (d *Deps) IsAdminChat(chatID int64) bool {
	for _, id := range d.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
