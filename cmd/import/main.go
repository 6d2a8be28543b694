package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/importer"
	"github.com/Spok95/telegram-event-bot/internal/logging"
	"github.com/Spok95/telegram-event-bot/internal/repo"
	"github.com/Spok95/telegram-event-bot/internal/service"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Границы паузы между боевыми записями.
const (
	minRateLimit = 0.2
	maxRateLimit = 10.0
)

var (
	confirmLive    bool
	rateLimitSec   float64
	maxRecords     int
	verbose        bool
	previewSamples int
)

func main() {
	cmd := &cobra.Command{
		Use:   "import <participants.csv>",
		Short: "Импорт участников из CSV в Airtable",
		Long: "Разбирает CSV, валидирует строки, ищет дубликаты и пишет записи в Airtable.\n" +
			"Без --confirm-live выполняется только сухой прогон.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().BoolVar(&confirmLive, "confirm-live", false, "писать в боевую таблицу (по умолчанию сухой прогон)")
	cmd.Flags().Float64Var(&rateLimitSec, "rate-limit", 1.0, "пауза между записями, сек")
	cmd.Flags().IntVar(&maxRecords, "max-records", 0, "обработать не больше N строк (0 — все)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "подробный вывод")
	cmd.Flags().IntVar(&previewSamples, "preview-samples", 3, "показать N примеров записей")

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "прервано")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if rateLimitSec < minRateLimit {
		rateLimitSec = minRateLimit
	}
	if rateLimitSec > maxRateLimit {
		rateLimitSec = maxRateLimit
	}

	apiKey := os.Getenv("AIRTABLE_API_KEY")
	baseID := os.Getenv("AIRTABLE_BASE_ID")
	if apiKey == "" || baseID == "" {
		return errors.New("AIRTABLE_API_KEY и AIRTABLE_BASE_ID должны быть заданы")
	}
	table := os.Getenv("AIRTABLE_PARTICIPANTS_TABLE")
	if table == "" {
		table = "Participants"
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	lg, err := logging.Init(level, "dev")
	if err != nil {
		return err
	}
	defer lg.Closer()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := airtable.NewClient(airtable.Config{
		APIKey: apiKey,
		BaseID: baseID,
		Table:  table,
		RPS:    5,
	}, fieldmap.Participants, lg.Sugar)
	if !client.TestConnection(ctx) {
		return errors.New("таблица Airtable недоступна, проверьте ключ и ID базы")
	}

	store := repo.NewParticipants(client, service.NewSearchService())
	im := importer.New(store, lg.Sugar)

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := im.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("разбор CSV: %w", err)
	}

	// Сухой прогон обязателен всегда: боевой запуск стартует только
	// после него.
	dry, err := im.Run(ctx, rows, importer.Options{
		DryRun:         true,
		MaxRecords:     maxRecords,
		PreviewSamples: previewSamples,
	})
	if err != nil {
		return err
	}
	printReport(dry)

	if !confirmLive {
		fmt.Println("\nСухой прогон завершён. Добавьте --confirm-live для боевой записи.")
		return nil
	}
	if dry.ValidationErrors > 0 {
		return fmt.Errorf("боевой запуск отменён: %d строк не прошли валидацию", dry.ValidationErrors)
	}

	fmt.Println("\n— боевая запись —")
	live, err := im.Run(ctx, rows, importer.Options{
		MaxRecords:     maxRecords,
		PreviewSamples: 0,
		Delay:          time.Duration(rateLimitSec * float64(time.Second)),
	})
	if err != nil {
		return err
	}
	printReport(live)
	if live.Failed > 0 {
		return fmt.Errorf("%d строк не записались", live.Failed)
	}
	return nil
}

func printReport(r *importer.Report) {
	mode := "боевой"
	if r.DryRun {
		mode = "сухой"
	}
	fmt.Printf("Режим: %s\nВсего строк: %d\nУспешно: %d\nОшибки валидации: %d\nДубликаты: %d\nСбои записи: %d\n",
		mode, r.TotalRows, r.Successful, r.ValidationErrors, r.Duplicates, r.Failed)
	for _, e := range r.Errors {
		fmt.Printf("  строка %d: %s\n", e.Line, e.Msg)
	}
	if len(r.Previews) > 0 {
		fmt.Println("Примеры записей:")
		for _, p := range r.Previews {
			fmt.Printf("  %s (%s), %s/%s\n", p.FullNameRU, p.FullNameEN, p.Role, p.Department)
		}
	}
}
