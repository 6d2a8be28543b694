package service

import (
	"context"
	"sync"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/i18n"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	"go.uber.org/zap"
)

const (
	notifyAttempts  = 3
	notifyBaseDelay = 500 * time.Millisecond
)

// Sender — минимальная способность платформы доставки сообщений.
type Sender interface {
	Send(chatID int64, text string) error
}

// NotifyService — best-effort доставка уведомлений с ограниченным
// повтором. Перманентные отказы (нас заблокировали, чата нет) не
// ретраятся; сетевые — до notifyAttempts раз с удвоением паузы.
// За границу fan-out'а ошибка не выходит — только bool в карте итогов.
type NotifyService struct {
	sender    Sender
	adminIDs  []int64
	lang      string
	log       *zap.SugaredLogger
	attempts  int
	baseDelay time.Duration
}

func NewNotifyService(sender Sender, adminIDs []int64, lang string, log *zap.SugaredLogger) *NotifyService {
	return &NotifyService{
		sender:    sender,
		adminIDs:  adminIDs,
		lang:      lang,
		log:       log,
		attempts:  notifyAttempts,
		baseDelay: notifyBaseDelay,
	}
}

// NotifyAdminsOfNewRequest рассылает уведомление всем админам
// одновременно и возвращает карту «админ → доставлено», чтобы частичный
// отказ был виден по каждому получателю отдельно.
func (s *NotifyService) NotifyAdminsOfNewRequest(ctx context.Context, req *models.UserAccessRequest) map[int64]bool {
	text := i18n.AdminNewRequest(s.lang, req)
	results := make(map[int64]bool, len(s.adminIDs))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, adminID := range s.adminIDs {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			ok := s.sendWithRetry(ctx, id, text, "admin_new_request")
			mu.Lock()
			results[id] = ok
			mu.Unlock()
		}(adminID)
	}
	wg.Wait()
	return results
}

// NotifyUserDecision шлёт пользователю итог рассмотрения заявки.
func (s *NotifyService) NotifyUserDecision(ctx context.Context, userID int64, approved bool, level models.AccessLevel, notes, lang string) bool {
	var text string
	if approved {
		text = i18n.UserApproved(lang, level, notes)
	} else {
		text = i18n.UserDenied(lang, notes)
	}
	return s.sendWithRetry(ctx, userID, text, "user_decision")
}

func (s *NotifyService) sendWithRetry(ctx context.Context, chatID int64, text, kind string) bool {
	delay := s.baseDelay
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := s.sender.Send(chatID, text)
		if err == nil {
			metrics.Notifications.WithLabelValues(kind, "ok").Inc()
			return true
		}
		if tg.IsPermanent(err) {
			if s.log != nil {
				s.log.Warnw("notification rejected permanently", "chat_id", chatID, "kind", kind, "err", err)
			}
			metrics.Notifications.WithLabelValues(kind, "permanent").Inc()
			return false
		}
		if s.log != nil {
			s.log.Warnw("notification failed, will retry", "chat_id", chatID, "kind", kind, "attempt", attempt, "err", err)
		}
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			metrics.Notifications.WithLabelValues(kind, "cancelled").Inc()
			return false
		case <-time.After(delay):
		}
		delay *= 2
	}
	metrics.Notifications.WithLabelValues(kind, "failed").Inc()
	return false
}
