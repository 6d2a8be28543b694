package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// offset продолжения постраничного просмотра заявок, по чату админа
var pendingOffsets = struct {
	mu sync.Mutex
	m  map[int64]string
}{m: make(map[int64]string)}

// HandlePending показывает админу страницу ожидающих заявок с кнопками
// одобрения по уровням и отказа.
func HandlePending(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	showPendingPage(ctx, d, msg.Chat.ID, "")
}

func showPendingPage(ctx context.Context, d *Deps, chatID int64, offset string) {
	ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
	defer cancel()
	requests, next, err := d.Access.ListPending(ctx, offset)
	if err != nil {
		d.Log.Errorw("pending: list", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	if len(requests) == 0 && offset == "" {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, "Нет ожидающих заявок."))
		return
	}

	for _, req := range requests {
		username := req.TelegramUsername
		if username == "" {
			username = "—"
		}
		text := fmt.Sprintf("Заявка на доступ\n👤 @%s (id %d)\n🕐 Подана: %s",
			username, req.TelegramUserID, req.RequestedAt.Format("02.01.2006 15:04"))

		uid := strconv.FormatInt(req.TelegramUserID, 10)
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Наблюдатель", "access_approve_viewer_"+uid),
				tgbotapi.NewInlineKeyboardButtonData("✅ Координатор", "access_approve_coordinator_"+uid),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Админ", "access_approve_admin_"+uid),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "access_deny_"+uid),
			),
		)
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ReplyMarkup = markup
		_, _ = tg.Send(d.Bot, reply)
	}

	pendingOffsets.mu.Lock()
	if next != "" {
		pendingOffsets.m[chatID] = next
	} else {
		delete(pendingOffsets.m, chatID)
	}
	pendingOffsets.mu.Unlock()

	if next != "" {
		more := tgbotapi.NewMessage(chatID, "Показана не вся очередь.")
		more.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➡️ Ещё", "access_more"),
			),
		)
		_, _ = tg.Send(d.Bot, more)
	}
}

// HandleAccessCallback обрабатывает кнопки approve/deny/ещё.
func HandleAccessCallback(ctx context.Context, d *Deps, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID
	reviewer := "@" + cb.From.UserName

	if data == "access_more" {
		pendingOffsets.mu.Lock()
		offset := pendingOffsets.m[chatID]
		pendingOffsets.mu.Unlock()
		_, _ = tg.Request(d.Bot, tgbotapi.NewCallback(cb.ID, ""))
		showPendingPage(ctx, d, chatID, offset)
		return
	}

	var approve bool
	var level models.AccessLevel
	var uidStr string
	switch {
	case strings.HasPrefix(data, "access_approve_viewer_"):
		approve, level, uidStr = true, models.LevelViewer, strings.TrimPrefix(data, "access_approve_viewer_")
	case strings.HasPrefix(data, "access_approve_coordinator_"):
		approve, level, uidStr = true, models.LevelCoordinator, strings.TrimPrefix(data, "access_approve_coordinator_")
	case strings.HasPrefix(data, "access_approve_admin_"):
		approve, level, uidStr = true, models.LevelAdmin, strings.TrimPrefix(data, "access_approve_admin_")
	case strings.HasPrefix(data, "access_deny_"):
		uidStr = strings.TrimPrefix(data, "access_deny_")
	default:
		return
	}
	userID, err := strconv.ParseInt(uidStr, 10, 64)
	if err != nil {
		d.Log.Warnw("access callback: bad user id", "data", data)
		return
	}

	req, err := d.Access.FindRequest(ctx, userID)
	if err != nil || req == nil {
		d.Log.Errorw("access callback: find request", "user_id", userID, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Request(d.Bot, tgbotapi.NewCallback(cb.ID, "Заявка не найдена"))
		return
	}

	var resultText string
	if approve {
		_, err = d.Access.ApproveRequest(ctx, req, level, reviewer)
		resultText = cb.Message.Text + fmt.Sprintf("\n\n✅ Одобрено (%s) %s", level, reviewer)
	} else {
		_, err = d.Access.DenyRequest(ctx, req, reviewer)
		resultText = cb.Message.Text + "\n\n❌ Отклонено " + reviewer
	}
	if err != nil {
		d.Log.Errorw("access callback: transition", "user_id", userID, "approve", approve, "err", err)
		metrics.HandlerErrors.Inc()
		resultText = i18n.GenericError(d.Lang)
	} else {
		go func() {
			ok := d.Notify.NotifyUserDecision(context.WithoutCancel(ctx), userID, approve, level, "", d.Lang)
			if !ok {
				d.Log.Warnw("user not notified of decision", "user_id", userID)
			}
		}()
	}

	_, _ = tg.Send(d.Bot, tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, resultText))
	_, _ = tg.Request(d.Bot, tgbotapi.NewCallback(cb.ID, "Обработано"))
}
