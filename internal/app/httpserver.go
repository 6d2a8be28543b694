package app

import (
	"context"
	"net/http"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/ctxutil"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
)

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP поднимает /healthz (проба доступности Airtable) и /metrics.
func StartHTTP(ctx context.Context, addr string, probe *airtable.Client) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := ctxutil.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if !probe.TestConnection(ctx) {
			http.Error(w, "airtable not ok", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}
