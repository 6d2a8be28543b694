package handlers

import (
	"context"
	"os"

	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/export"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleExport выгружает участников в CSV и XLSX и шлёт оба файла.
func HandleExport(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
	defer cancel()
	participants, err := d.Participants.ListAll(ctx)
	if err != nil {
		d.Log.Errorw("export: list participants", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	if len(participants) == 0 {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, "Таблица участников пуста."))
		return
	}

	csvPath, err := export.WriteParticipantsCSV(participants, d.ExportDir)
	if err != nil {
		d.Log.Errorw("export: write csv", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	defer func() { _ = os.Remove(csvPath) }()

	xlsxPath, err := export.WriteRosterExcel(export.RosterSheets(participants), d.ExportDir)
	if err != nil {
		d.Log.Errorw("export: write xlsx", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	defer func() { _ = os.Remove(xlsxPath) }()

	for _, path := range []string{csvPath, xlsxPath} {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
		if _, err := tg.Send(d.Bot, doc); err != nil {
			d.Log.Errorw("export: send document", "path", path, "err", err)
			metrics.HandlerErrors.Inc()
		}
	}
}
