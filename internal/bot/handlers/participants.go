package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	fuzzyThreshold = 0.55
	fuzzyLimit     = 5
)

// чаты, ожидающие ввода поискового запроса
var findState = struct {
	mu sync.Mutex
	m  map[int64]bool
}{m: make(map[int64]bool)}

func GetFindState(chatID int64) bool {
	findState.mu.Lock()
	defer findState.mu.Unlock()
	return findState.m[chatID]
}

// StartFind спрашивает запрос; сам поиск — в HandleFindText.
func StartFind(d *Deps, msg *tgbotapi.Message) {
	findState.mu.Lock()
	findState.m[msg.Chat.ID] = true
	findState.mu.Unlock()
	_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, "Введите имя участника (можно частично):"))
}

func HandleFindText(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	findState.mu.Lock()
	delete(findState.m, chatID)
	findState.mu.Unlock()

	query := strings.TrimSpace(msg.Text)
	ctx, cancel := ctxutil.WithAirtableTimeout(ctx)
	defer cancel()
	results, err := d.Participants.SearchByNameFuzzy(ctx, query, fuzzyThreshold, fuzzyLimit)
	if err != nil {
		d.Log.Errorw("find: fuzzy search", "query", query, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, i18n.GenericError(d.Lang)))
		return
	}
	if len(results) == 0 {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, "Никого не нашёл. Попробуйте написать имя иначе."))
		return
	}

	var b strings.Builder
	b.WriteString("Похожие участники:\n")
	for i, r := range results {
		p := r.Participant
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, p.FullNameRU))
		if p.Church != "" {
			b.WriteString(" — " + p.Church)
		}
		if p.RoomNumber != "" {
			b.WriteString(fmt.Sprintf("\n   🚪 Комната %s", p.RoomNumber))
			if p.FloorNumber != 0 {
				b.WriteString(fmt.Sprintf(", этаж %d", p.FloorNumber))
			}
		}
		if p.Role != "" {
			b.WriteString(fmt.Sprintf("\n   🏷 %s", p.Role))
		}
		b.WriteString("\n")
	}
	_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(chatID, b.String()))
}

// HandleFloors — список этажей размещения. Фича некритичная: по
// таймауту просто говорим, что данных нет.
func HandleFloors(ctx context.Context, d *Deps, msg *tgbotapi.Message) {
	floors := d.Participants.ListFloors(ctx)
	if len(floors) == 0 {
		_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, "Пока нет данных о размещении по этажам."))
		return
	}
	parts := make([]string, 0, len(floors))
	for _, f := range floors {
		parts = append(parts, fmt.Sprintf("%d", f))
	}
	_, _ = tg.Send(d.Bot, tgbotapi.NewMessage(msg.Chat.ID, "🏢 Занятые этажи: "+strings.Join(parts, ", ")))
}
