package handlers

import (
	"context"

	"github.com/Spok95/telegram-event-bot/internal/bot/menu"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleStart: для новичка подаёт заявку (идемпотентно) и уведомляет
// админов; одобренному показывает меню его уровня.
func HandleStart(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	username := ""
	if msg.From != nil {
		username = msg.From.UserName
	}

	existing, err := d.Access.FindRequest(ctx, chatID)
	if err != nil {
		d.Log.Errorw("start: find request", "chat_id", chatID, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}

	switch {
	case existing == nil:
		req, err := d.Access.SubmitRequest(ctx, chatID, username)
		if err != nil {
			d.Log.Errorw("start: submit request", "chat_id", chatID, "err", err)
			metrics.HandlerErrors.Inc()
			_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
			return
		}
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.RequestPending(d.Lang)))
		go func() {
			results := d.Notify.NotifyAdminsOfNewRequest(context.WithoutCancel(ctx), req)
			for adminID, ok := range results {
				if !ok {
					d.Log.Warnw("admin not notified", "admin_id", adminID, "user_id", req.TelegramUserID)
				}
			}
		}()
	case existing.IsApproved():
		level := models.LevelViewer
		if l := d.Access.GetAccessLevel(existing); l != nil {
			level = *l
		}
		reply := tgbotapi.NewMessage(chatID, "Добро пожаловать! Выберите действие:")
		reply.ReplyMarkup = menu.ForLevel(level)
		_, _ = tg.Send(d.Bot, reply)
	case existing.IsPending():
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.RequestPending(d.Lang)))
	default:
		// отказ: клавиатуру убираем
		reply := tgbotapi.NewMessage(chatID, i18n.AccessClosed(d.Lang))
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, _ = tg.Send(d.Bot, reply)
	}
}
