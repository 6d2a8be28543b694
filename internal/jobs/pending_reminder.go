package jobs

import (
	"context"
	"fmt"

	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/service"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PendingReminder раз в интервал напоминает админам про ожидающие
// заявки. Считает всю очередь постранично, сообщение шлёт только когда
// очередь не пуста.
func PendingReminder(bot *tgbotapi.BotAPI, access *service.AccessService, adminIDs []int64) Job {
	return func(ctx context.Context) error {
		ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
		defer cancel()
		total := 0
		offset := ""
		for {
			page, next, err := access.ListPending(ctx, offset)
			if err != nil {
				return err
			}
			total += len(page)
			if next == "" {
				break
			}
			offset = next
		}
		if total == 0 {
			return nil
		}
		text := fmt.Sprintf("⏳ В очереди %d заявок на доступ. /pending", total)
		for _, chatID := range adminIDs {
			_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, text))
		}
		return nil
	}
}
