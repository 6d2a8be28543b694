package ctxutil

import (
	"context"
	"time"
)

// Таймауты внешних вызовов. Пока константы; при желании позже сделаем из ENV.
var (
	DefaultAirtableTimeout = 30 * time.Second
)

// WithTimeout — обёртка над context.WithTimeout; d<=0 — без таймаута.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithAirtableTimeout — стандартный таймаут для походов в Airtable.
// Уже более короткий дедлайн родителя не растягиваем.
func WithAirtableTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultAirtableTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultAirtableTimeout)
}
