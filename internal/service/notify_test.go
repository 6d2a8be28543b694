package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender считает попытки по чатам и отвечает по заданному сценарию.
type fakeSender struct {
	mu       sync.Mutex
	attempts map[int64]int
	fail     map[int64]error // ошибка на каждую попытку для чата
	failOnce map[int64]error // ошибка только на первую попытку
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		attempts: map[int64]int{},
		fail:     map[int64]error{},
		failOnce: map[int64]error{},
	}
}

func (f *fakeSender) Send(chatID int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[chatID]++
	if err, ok := f.failOnce[chatID]; ok && f.attempts[chatID] == 1 {
		return err
	}
	return f.fail[chatID]
}

func (f *fakeSender) count(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[chatID]
}

func newNotify(sender Sender, adminIDs ...int64) *NotifyService {
	s := NewNotifyService(sender, adminIDs, "ru", nil)
	s.baseDelay = time.Millisecond // в тестах не спим по-настоящему
	return s
}

func TestNotifyAdminsFanOut(t *testing.T) {
	sender := newFakeSender()
	// 2-й админ заблокировал бота — перманентный отказ
	sender.fail[2] = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}
	s := newNotify(sender, 1, 2, 3)

	req := &models.UserAccessRequest{TelegramUserID: 99, TelegramUsername: "ivan"}
	results := s.NotifyAdminsOfNewRequest(context.Background(), req)

	require.Len(t, results, 3)
	assert.True(t, results[1])
	assert.False(t, results[2])
	assert.True(t, results[3])

	// перманентный отказ не ретраится
	assert.Equal(t, 1, sender.count(2))
	assert.Equal(t, 1, sender.count(1))
}

func TestNotifyRetriesTransient(t *testing.T) {
	sender := newFakeSender()
	sender.failOnce[1] = errors.New("dial tcp: i/o timeout")
	s := newNotify(sender, 1)

	req := &models.UserAccessRequest{TelegramUserID: 99}
	results := s.NotifyAdminsOfNewRequest(context.Background(), req)

	assert.True(t, results[1])
	assert.Equal(t, 2, sender.count(1), "успех со второй попытки")
}

func TestNotifyGivesUpAfterAttempts(t *testing.T) {
	sender := newFakeSender()
	sender.fail[1] = errors.New("dial tcp: i/o timeout")
	s := newNotify(sender, 1)

	req := &models.UserAccessRequest{TelegramUserID: 99}
	results := s.NotifyAdminsOfNewRequest(context.Background(), req)

	assert.False(t, results[1])
	assert.Equal(t, notifyAttempts, sender.count(1))
}

func TestNotifyUserDecision(t *testing.T) {
	sender := newFakeSender()
	s := newNotify(sender, 1)

	ok := s.NotifyUserDecision(context.Background(), 99, true, models.LevelCoordinator, "", "ru")
	assert.True(t, ok)
	assert.Equal(t, 1, sender.count(99))

	sender.fail[77] = &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}
	ok = s.NotifyUserDecision(context.Background(), 77, false, "", "", "ru")
	assert.False(t, ok)
	assert.Equal(t, 1, sender.count(77))
}

func TestNotifyStopsOnContextCancel(t *testing.T) {
	sender := newFakeSender()
	sender.fail[1] = errors.New("dial tcp: i/o timeout")
	s := newNotify(sender, 1)
	s.baseDelay = time.Minute // ожидание должно прерваться отменой, не истечь

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &models.UserAccessRequest{TelegramUserID: 99}
	start := time.Now()
	results := s.NotifyAdminsOfNewRequest(ctx, req)

	assert.False(t, results[1])
	assert.Equal(t, 1, sender.count(1))
	assert.Less(t, time.Since(start), time.Second)
}
