package airtable

import (
	"context"
	"sync"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/metrics"
)

// rateGate — простейший ограничитель с фиксированным интервалом:
// перед каждым запросом ждём, пока с последнего пропуска пройдёт
// 1/rps. Мьютекс держится на всём ожидании, так что конкурентные
// вызовы выстраиваются в очередь, а не просыпаются все разом.
// Burst-кредита нет: всплеск запросов растягивается ровно до rps.
type rateGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newRateGate(rps float64) *rateGate {
	if rps <= 0 {
		rps = 5 // лимит Airtable на базу
	}
	return &rateGate{interval: time.Duration(float64(time.Second) / rps)}
}

func (g *rateGate) acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	wait := g.interval - time.Since(g.last)
	if wait > 0 {
		metrics.ObserveRateWait(wait)
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	g.last = time.Now()
	return nil
}
