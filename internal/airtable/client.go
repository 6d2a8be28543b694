package airtable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/metrics"
	"github.com/Spok95/telegram-event-bot/internal/observability"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	// Airtable принимает не больше 10 записей за один batch-запрос.
	batchSize = 10
)

// Record — одна строка таблицы: непрозрачный ID плюс карта полей.
type Record struct {
	ID          string         `json:"id,omitempty"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// RecordUpdate — элемент bulk-обновления.
type RecordUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type SortField struct {
	Field     string
	Direction string // "asc" | "desc"
}

type ListOptions struct {
	Formula    string
	Sort       []SortField
	Fields     []string
	MaxRecords int
	View       string
	Offset     string
}

// API — часть клиента, которой пользуются репозитории. Тесты подменяют
// её стабом (см. internal/repo/stubs).
type API interface {
	CreateRecord(ctx context.Context, fields map[string]any) (*Record, error)
	GetRecord(ctx context.Context, id string) (*Record, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error)
	DeleteRecord(ctx context.Context, id string) (bool, error)
	ListRecords(ctx context.Context, opts ListOptions) ([]Record, string, error)
	ListAll(ctx context.Context, opts ListOptions) ([]Record, error)
	BulkCreate(ctx context.Context, fields []map[string]any) ([]Record, error)
	BulkUpdate(ctx context.Context, updates []RecordUpdate) ([]Record, error)
	SearchByField(ctx context.Context, field string, value any) ([]Record, error)
	SearchByFormula(ctx context.Context, formula string) ([]Record, error)
	Table() string
}

// Client — шлюз к одной таблице Airtable. Все операции проходят через
// общий rateGate этой таблицы.
type Client struct {
	http  *resty.Client
	base  string
	table string
	fm    *fieldmap.Mapping
	gate  *rateGate
	log   *zap.SugaredLogger
}

type Config struct {
	APIKey  string
	BaseID  string
	Table   string
	RPS     float64
	BaseURL string // переопределяется в тестах
}

func NewClient(cfg Config, fm *fieldmap.Mapping, log *zap.SugaredLogger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(30 * time.Second)
	return &Client{
		http:  hc,
		base:  cfg.BaseID,
		table: cfg.Table,
		fm:    fm,
		gate:  newRateGate(cfg.RPS),
		log:   log,
	}
}

func (c *Client) Table() string { return c.table }

type apiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) path(parts ...string) string {
	p := "/" + c.base + "/" + url.PathEscape(c.table)
	for _, s := range parts {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// do выполняет один запрос: rate-gate, вызов, метрики, единая обёртка
// ошибок.
func (c *Client) do(ctx context.Context, op string, fn func(r *resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if err := c.gate.acquire(ctx); err != nil {
		return nil, wrap(op, 0, err)
	}
	start := time.Now()
	resp, err := fn(c.http.R().SetContext(ctx))
	status := "transport_error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	metrics.ObserveAirtable(c.table, op, status, time.Since(start))
	if err != nil {
		return nil, wrap(op, 0, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		var body apiErrorBody
		if e := resp.Error(); e != nil {
			if b, ok := e.(*apiErrorBody); ok {
				body = *b
			}
		}
		if body.Error.Message != "" {
			msg = body.Error.Type + ": " + body.Error.Message
		}
		werr := wrap(op, resp.StatusCode(), errors.New(msg))
		if resp.StatusCode() >= http.StatusInternalServerError {
			observability.CaptureErrTagged("airtable", werr)
		}
		return nil, werr
	}
	return resp, nil
}

// translateWrite переводит отображаемые имена полей и значения select'ов
// в непрозрачные ID перед записью.
func (c *Client) translateWrite(fields map[string]any) map[string]any {
	if c.fm == nil {
		return fields
	}
	withOpts := make(map[string]any, len(fields))
	for name, v := range fields {
		withOpts[name] = c.fm.TranslateOptionToID(name, v)
	}
	return c.fm.TranslateFieldsToIDs(withOpts)
}

func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	var out Record
	_, err := c.do(ctx, "create", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]any{"fields": c.translateWrite(fields)}).
			SetResult(&out).
			SetError(&apiErrorBody{}).
			Post(c.path())
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecord возвращает (nil, nil) на not-found: отсутствие записи при
// чтении — не ошибка.
func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	var out Record
	_, err := c.do(ctx, "get", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).SetError(&apiErrorBody{}).Get(c.path(id))
	})
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	var out Record
	_, err := c.do(ctx, "update", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]any{"fields": c.translateWrite(fields)}).
			SetResult(&out).
			SetError(&apiErrorBody{}).
			Patch(c.path(id))
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRecord возвращает (false, nil), если записи уже нет.
func (c *Client) DeleteRecord(ctx context.Context, id string) (bool, error) {
	var out struct {
		Deleted bool   `json:"deleted"`
		ID      string `json:"id"`
	}
	_, err := c.do(ctx, "delete", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).SetError(&apiErrorBody{}).Delete(c.path(id))
	})
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.IsNotFound() {
			return false, nil
		}
		return false, err
	}
	return out.Deleted, nil
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListRecords отдаёт одну страницу и offset продолжения (пустой, когда
// страниц больше нет). Необязательные параметры не передаются вовсе,
// а не отправляются пустыми.
func (c *Client) ListRecords(ctx context.Context, opts ListOptions) ([]Record, string, error) {
	var out listResponse
	_, err := c.do(ctx, "list", func(r *resty.Request) (*resty.Response, error) {
		if opts.Formula != "" {
			r.SetQueryParam("filterByFormula", opts.Formula)
		}
		for i, s := range opts.Sort {
			r.SetQueryParam(fmt.Sprintf("sort[%d][field]", i), s.Field)
			if s.Direction != "" {
				r.SetQueryParam(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
			}
		}
		for _, f := range opts.Fields {
			r.QueryParam.Add("fields[]", f)
		}
		if opts.MaxRecords > 0 {
			r.SetQueryParam("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if opts.View != "" {
			r.SetQueryParam("view", opts.View)
		}
		if opts.Offset != "" {
			r.SetQueryParam("offset", opts.Offset)
		}
		return r.SetResult(&out).SetError(&apiErrorBody{}).Get(c.path())
	})
	if err != nil {
		return nil, "", err
	}
	return out.Records, out.Offset, nil
}

// ListAll проходит все страницы. Каждая страница — отдельный запрос
// через rate-gate.
func (c *Client) ListAll(ctx context.Context, opts ListOptions) ([]Record, error) {
	var all []Record
	for {
		page, offset, err := c.ListRecords(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if offset == "" {
			return all, nil
		}
		opts.Offset = offset
	}
}

// BulkCreate пишет записи пачками по 10, сохраняя порядок. Пустой вход
// не делает ни одного запроса.
func (c *Client) BulkCreate(ctx context.Context, fields []map[string]any) ([]Record, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	created := make([]Record, 0, len(fields))
	for start := 0; start < len(fields); start += batchSize {
		end := min(start+batchSize, len(fields))
		batch := make([]map[string]any, 0, end-start)
		for _, f := range fields[start:end] {
			batch = append(batch, map[string]any{"fields": c.translateWrite(f)})
		}
		var out listResponse
		_, err := c.do(ctx, "bulk_create", func(r *resty.Request) (*resty.Response, error) {
			return r.
				SetBody(map[string]any{"records": batch}).
				SetResult(&out).
				SetError(&apiErrorBody{}).
				Post(c.path())
		})
		if err != nil {
			return nil, err
		}
		created = append(created, out.Records...)
	}
	return created, nil
}

func (c *Client) BulkUpdate(ctx context.Context, updates []RecordUpdate) ([]Record, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	updated := make([]Record, 0, len(updates))
	for start := 0; start < len(updates); start += batchSize {
		end := min(start+batchSize, len(updates))
		batch := make([]RecordUpdate, 0, end-start)
		for _, u := range updates[start:end] {
			batch = append(batch, RecordUpdate{ID: u.ID, Fields: c.translateWrite(u.Fields)})
		}
		var out listResponse
		_, err := c.do(ctx, "bulk_update", func(r *resty.Request) (*resty.Response, error) {
			return r.
				SetBody(map[string]any{"records": batch}).
				SetResult(&out).
				SetError(&apiErrorBody{}).
				Patch(c.path())
		})
		if err != nil {
			return nil, err
		}
		updated = append(updated, out.Records...)
	}
	return updated, nil
}

// SearchByField — поиск по равенству одного поля. field — отображаемое
// имя; значение экранируется по правилам формул.
func (c *Client) SearchByField(ctx context.Context, field string, value any) ([]Record, error) {
	return c.SearchByFormula(ctx, Equals("{"+field+"}", value))
}

func (c *Client) SearchByFormula(ctx context.Context, formula string) ([]Record, error) {
	return c.ListAll(ctx, ListOptions{Formula: formula})
}

// TestConnection — лёгкая проверка доступности таблицы.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, _, err := c.ListRecords(ctx, ListOptions{MaxRecords: 1})
	if err != nil && c.log != nil {
		c.log.Warnw("airtable connection check failed", "table", c.table, "err", err)
	}
	return err == nil
}

type FieldSchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type TableSchema struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Fields []FieldSchema `json:"fields"`
}

type Schema struct {
	Tables []TableSchema `json:"tables"`
}

// GetSchema — интроспекция схемы базы через Meta API.
func (c *Client) GetSchema(ctx context.Context) (*Schema, error) {
	var out Schema
	_, err := c.do(ctx, "schema", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).SetError(&apiErrorBody{}).Get("/meta/bases/" + c.base + "/tables")
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var _ API = (*Client)(nil)
