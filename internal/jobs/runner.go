package jobs

import (
	"context"
	"time"
)

// Job — одна итерация фоновой задачи. Ошибка попадает в метрики,
// но не останавливает расписание.
type Job func(ctx context.Context) error

// Runner крутит фоновые задачи по тикеру, пока жив контекст процесса.
type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every запускает fn раз в interval в отдельной горутине. Первый запуск
// происходит через interval, не сразу.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				started := time.Now()
				err := fn(r.ctx)
				jobRuns.WithLabelValues(name).Inc()
				jobDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
				if err != nil {
					jobErrors.WithLabelValues(name).Inc()
				}
			}
		}
	}()
}
