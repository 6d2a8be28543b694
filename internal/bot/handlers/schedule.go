package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleReadings — расписание чтений Писания.
func HandleReadings(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
	defer cancel()
	readings, err := d.Readers.ListAll(ctx)
	if err != nil {
		d.Log.Errorw("readings: list", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, i18n.GenericError(d.Lang)))
		return
	}
	if len(readings) == 0 {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, "Чтения пока не назначены."))
		return
	}
	var b strings.Builder
	b.WriteString("📖 Чтения Писания:\n")
	for _, r := range readings {
		b.WriteString(fmt.Sprintf("\n• %s", r.Passage))
		if r.When != "" {
			b.WriteString(" — " + r.When)
		}
		if r.Where != "" {
			b.WriteString(" (" + r.Where + ")")
		}
		if len(r.ParticipantNames) > 0 {
			b.WriteString("\n  Читают: " + strings.Join(r.ParticipantNames, ", "))
		}
	}
	_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, b.String()))
}

// HandleROE — список сессий ROE с докладчиками.
func HandleROE(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
	defer cancel()
	sessions, err := d.ROE.ListAll(ctx)
	if err != nil {
		d.Log.Errorw("roe: list", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, i18n.GenericError(d.Lang)))
		return
	}
	if len(sessions) == 0 {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, "Сессии ROE пока не запланированы."))
		return
	}
	var b strings.Builder
	b.WriteString("🎤 Сессии ROE:\n")
	for _, s := range sessions {
		b.WriteString(fmt.Sprintf("\n• %s", s.Topic))
		if s.When != "" {
			b.WriteString(" — " + s.When)
		}
		if len(s.PresenterNames) > 0 {
			b.WriteString("\n  Докладчик: " + strings.Join(s.PresenterNames, ", "))
		}
		if len(s.AssistantNames) > 0 {
			b.WriteString("\n  Ассистент: " + strings.Join(s.AssistantNames, ", "))
		}
	}
	_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, b.String()))
}
