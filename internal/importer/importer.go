package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/repo"
	"go.uber.org/zap"
)

// Row — одна разобранная строка CSV с номером исходной строки файла.
type Row struct {
	Line        int
	Participant models.Participant
}

type RowError struct {
	Line int
	Msg  string
}

// Report — итог прогона импорта (сухого или боевого).
type Report struct {
	TotalRows        int
	Successful       int
	ValidationErrors int
	Duplicates       int
	Failed           int
	DryRun           bool
	Errors           []RowError
	Previews         []models.Participant
}

type Options struct {
	DryRun         bool
	MaxRecords     int
	PreviewSamples int
	// Пауза между боевыми записями поверх rate-gate клиента.
	Delay time.Duration
}

// ParticipantStore — что импортёру нужно от репозитория участников.
type ParticipantStore interface {
	Create(ctx context.Context, p *models.Participant) (*models.Participant, error)
	ListAll(ctx context.Context) ([]models.Participant, error)
}

type Importer struct {
	store ParticipantStore
	log   *zap.SugaredLogger
}

func New(store ParticipantStore, log *zap.SugaredLogger) *Importer {
	return &Importer{store: store, log: log}
}

// колонки CSV — по отображаемым именам Airtable
var columns = map[string]func(*models.Participant, string){
	"FullNameRU":         func(p *models.Participant, v string) { p.FullNameRU = v },
	"FullNameEN":         func(p *models.Participant, v string) { p.FullNameEN = v },
	"Gender":             func(p *models.Participant, v string) { p.Gender = v },
	"Size":               func(p *models.Participant, v string) { p.Size = v },
	"Role":               func(p *models.Participant, v string) { p.Role = models.Role(strings.ToUpper(v)) },
	"Department":         func(p *models.Participant, v string) { p.Department = models.Department(v) },
	"Floor":              func(p *models.Participant, v string) { p.FloorNumber, _ = strconv.Atoi(v) },
	"RoomNumber":         func(p *models.Participant, v string) { p.RoomNumber = v },
	"ContactInformation": func(p *models.Participant, v string) { p.ContactInfo = v },
	"Notes":              func(p *models.Participant, v string) { p.Notes = v },
}

// ParseCSV читает файл с заголовком; BOM в начале первого заголовка
// срезается. Неизвестные колонки игнорируются.
func (im *Importer) ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var p models.Participant
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			if set, ok := columns[strings.TrimSpace(name)]; ok {
				set(&p, strings.TrimSpace(rec[i]))
			}
		}
		rows = append(rows, Row{Line: line, Participant: p})
	}
	return rows, nil
}

func validate(p *models.Participant) string {
	var missing []string
	if p.FullNameRU == "" {
		missing = append(missing, "FullNameRU")
	}
	if p.Gender == "" {
		missing = append(missing, "Gender")
	}
	if len(missing) > 0 {
		return "blank required fields: " + strings.Join(missing, ", ")
	}
	return ""
}

func dupKey(p *models.Participant) string {
	if p.ContactInfo != "" {
		return "contact:" + strings.ToLower(p.ContactInfo)
	}
	return "name:" + strings.ToLower(strings.Join(strings.Fields(p.FullNameRU), " "))
}

// Run прогоняет строки через валидацию, поиск дубликатов и — в боевом
// режиме — запись. Дубликаты ищутся pre-flight чтением всей таблицы;
// при конкурентных писателях проверка негерметична, это принятое
// ограничение.
func (im *Importer) Run(ctx context.Context, rows []Row, opts Options) (*Report, error) {
	report := &Report{TotalRows: len(rows), DryRun: opts.DryRun}

	existing, err := im.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing participants: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[dupKey(&existing[i])] = true
	}

	processed := 0
	for _, row := range rows {
		if opts.MaxRecords > 0 && processed >= opts.MaxRecords {
			break
		}
		processed++
		if err := ctx.Err(); err != nil {
			return report, err
		}

		p := row.Participant
		if msg := validate(&p); msg != "" {
			report.ValidationErrors++
			report.Errors = append(report.Errors, RowError{Line: row.Line, Msg: msg})
			continue
		}
		key := dupKey(&p)
		if seen[key] {
			report.Duplicates++
			report.Errors = append(report.Errors, RowError{Line: row.Line, Msg: "duplicate of an existing participant"})
			continue
		}
		seen[key] = true

		if len(report.Previews) < opts.PreviewSamples {
			report.Previews = append(report.Previews, p)
		}
		if opts.DryRun {
			report.Successful++
			continue
		}

		if _, err := im.store.Create(ctx, &p); err != nil {
			var dup *repo.DuplicateError
			if errors.As(err, &dup) {
				report.Duplicates++
				report.Errors = append(report.Errors, RowError{Line: row.Line, Msg: dup.Error()})
				continue
			}
			report.Failed++
			report.Errors = append(report.Errors, RowError{Line: row.Line, Msg: err.Error()})
			if im.log != nil {
				im.log.Errorw("import row failed", "line", row.Line, "err", err)
			}
			continue
		}
		report.Successful++
		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return report, nil
}
