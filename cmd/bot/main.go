package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/app"
	"github.com/Spok95/telegram-event-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-event-bot/internal/config"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/jobs"
	"github.com/Spok95/telegram-event-bot/internal/logging"
	"github.com/Spok95/telegram-event-bot/internal/observability"
	"github.com/Spok95/telegram-event-bot/internal/repo"
	"github.com/Spok95/telegram-event-bot/internal/service"
	"github.com/Spok95/telegram-event-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "event-bot")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer closeSentry()

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Sugar.Fatalw("bot start failed", "err", err)
	}
	lg.Sugar.Infow("бот запущен", "username", bot.Self.UserName)

	newClient := func(table string, fm *fieldmap.Mapping) *airtable.Client {
		return airtable.NewClient(airtable.Config{
			APIKey: cfg.AirtableAPIKey,
			BaseID: cfg.AirtableBaseID,
			Table:  table,
			RPS:    cfg.AirtableRPS,
		}, fm, lg.Sugar)
	}
	participantsClient := newClient(cfg.ParticipantsTable, fieldmap.Participants)
	readersClient := newClient(cfg.BibleReadersTable, fieldmap.BibleReaders)
	roeClient := newClient(cfg.ROETable, fieldmap.ROE)
	accessClient := newClient(cfg.AccessRequestsTable, fieldmap.AccessRequests)

	participants := repo.NewParticipants(participantsClient, service.NewSearchService())
	readers := repo.NewBibleReaders(readersClient)
	roeSessions := repo.NewROESessions(roeClient)
	accessRequests := repo.NewAccessRequests(accessClient)

	accessSvc := service.NewAccessService(accessRequests, lg.Sugar)
	notifySvc := service.NewNotifyService(tg.NewBotSender(bot), cfg.AdminIDs, cfg.DefaultLang, lg.Sugar)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app.StartHTTP(ctx, cfg.HTTPAddr, accessClient)

	runner := jobs.New(ctx)
	runner.Every(4*time.Hour, "pending_reminder", jobs.PendingReminder(bot, accessSvc, cfg.AdminIDs))

	deps := &handlers.Deps{
		Bot:          bot,
		Access:       accessSvc,
		Notify:       notifySvc,
		Participants: participants,
		Readers:      readers,
		ROE:          roeSessions,
		AdminIDs:     cfg.AdminIDs,
		Lang:         cfg.DefaultLang,
		ExportDir:    cfg.ExportDir,
		Log:          lg.Sugar,
	}
	dispatcher := app.NewDispatcher(deps)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			lg.Sugar.Info("останавливаемся")
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go dispatcher.HandleUpdate(ctx, update)
		}
	}
}
