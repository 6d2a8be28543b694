package tg

import (
	"errors"
	"strings"

	"github.com/Spok95/telegram-event-bot/internal/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// IsPermanent — отказ, который повтором не лечится: заблокировали бота,
// нет такого чата, кривой запрос. Сначала смотрим структурный код от
// Telegram, текстовая эвристика — запасной путь.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400, 403, 404:
			return true
		}
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Forbidden") ||
		strings.Contains(s, "blocked by the user") ||
		strings.Contains(s, "chat not found") ||
		strings.Contains(s, "Bad Request")
}

// Считаем системными: 5xx, 429, timeout. Телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil || IsPermanent(err) {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "502") ||
		strings.Contains(s, "503") || strings.Contains(s, "timeout")
}

func Send(bot *tgbotapi.BotAPI, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	m, err := bot.Send(msg)
	if isSystemErr(err) {
		observability.CaptureErr(err)
	}
	return m, err
}

func Request(bot *tgbotapi.BotAPI, req tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	r, err := bot.Request(req)
	if isSystemErr(err) {
		observability.CaptureErr(err)
	}
	return r, err
}
