package app

import (
	"context"
	"strings"

	"github.com/Spok95/telegram-event-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher маршрутизирует апдейты Telegram по обработчикам, проверяя
// доступ явным guard'ом перед каждой защищённой операцией.
type Dispatcher struct {
	deps    *handlers.Deps
	limiter *ChatLimiter
}

func NewDispatcher(deps *handlers.Deps) *Dispatcher {
	return &Dispatcher{deps: deps, limiter: NewChatLimiter()}
}

func (dp *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	metrics.BotUpdates.Inc()
	switch {
	case update.CallbackQuery != nil:
		dp.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		dp.handleMessage(ctx, update.Message)
	}
}

func (dp *Dispatcher) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	d := dp.deps
	chatID := cb.Message.Chat.ID
	unlock := dp.limiter.lock(chatID)
	defer unlock()

	if strings.HasPrefix(cb.Data, "access_") {
		// решения по заявкам — только админам
		authz, err := Authorize(ctx, d.Access, cb.From.ID)
		if err != nil {
			d.Log.Errorw("callback authorize", "chat_id", chatID, "err", err)
			metrics.HandlerErrors.Inc()
			return
		}
		if !authz.HasLevel(models.LevelAdmin) && !d.IsAdminChat(cb.From.ID) {
			_, _ = tg.Request(d.Bot, tgbotapi.NewCallback(cb.ID, "Доступ закрыт"))
			return
		}
		handlers.HandleAccessCallback(ctx, d, cb)
		return
	}
	_, _ = tg.Request(d.Bot, tgbotapi.NewCallback(cb.ID, ""))
}

func (dp *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	d := dp.deps
	chatID := msg.Chat.ID
	text := msg.Text

	unlock := dp.limiter.lock(chatID)
	defer unlock()

	// /start живёт до проверки доступа: именно он создаёт заявку
	if text == "/start" {
		handlers.HandleStart(ctx, d, msg)
		return
	}

	authz, err := Authorize(ctx, d.Access, chatID)
	if err != nil {
		d.Log.Errorw("authorize", "chat_id", chatID, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	if !authz.Allowed {
		if authz.Request != nil && authz.Request.IsPending() {
			_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.RequestPending(d.Lang)))
			return
		}
		reply := tgbotapi.NewMessage(chatID, i18n.AccessClosed(d.Lang))
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, _ = tg.Send(d.Bot, reply)
		return
	}

	if handlers.GetFindState(chatID) {
		handlers.HandleFindText(ctx, d, msg)
		return
	}

	switch text {
	case "/find", "🔍 Поиск участника":
		handlers.StartFind(d, msg)
	case "/floors", "🏢 Этажи":
		handlers.HandleFloors(ctx, d, msg)
	case "/readings", "📖 Чтения":
		handlers.HandleReadings(ctx, d, msg)
	case "/roe", "🎤 Сессии ROE":
		handlers.HandleROE(ctx, d, msg)
	case "/export", "📤 Экспорт участников":
		if authz.HasLevel(models.LevelCoordinator) {
			handlers.HandleExport(ctx, d, msg)
		}
	case "/pending", "📥 Заявки на доступ":
		if authz.HasLevel(models.LevelAdmin) || d.IsAdminChat(chatID) {
			handlers.HandlePending(ctx, d, msg)
		}
	default:
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.UnknownCommand(d.Lang)))
	}
}
