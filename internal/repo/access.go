package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/models"
)

// AccessRequests — репозиторий заявок на доступ.
type AccessRequests struct {
	api airtable.API
	fm  *fieldmap.Mapping
}

func NewAccessRequests(api airtable.API) *AccessRequests {
	return &AccessRequests{api: api, fm: fieldmap.AccessRequests}
}

func (r *AccessRequests) toFields(req *models.UserAccessRequest) (map[string]any, error) {
	domain := map[string]any{
		"telegram_user_id": req.TelegramUserID,
		"status":           string(req.Status),
		"access_level":     string(req.AccessLevel),
	}
	if req.TelegramUsername != "" {
		domain["telegram_username"] = req.TelegramUsername
	}
	if !req.RequestedAt.IsZero() {
		domain["requested_at"] = req.RequestedAt.UTC().Format(time.RFC3339)
	}
	if req.ReviewedAt != nil {
		domain["reviewed_at"] = req.ReviewedAt.UTC().Format(time.RFC3339)
	}
	if req.ReviewedBy != "" {
		domain["reviewed_by"] = req.ReviewedBy
	}
	out := make(map[string]any, len(domain))
	for name, v := range r.fm.WritableFields(domain) {
		if s, ok := v.(string); ok && s == "" {
			continue // пустое значение селекта Airtable отвергает
		}
		display, err := r.fm.DomainToAirtableField(name)
		if err != nil {
			return nil, err
		}
		out[display] = v
	}
	return out, nil
}

func (r *AccessRequests) fromRecord(rec airtable.Record) (models.UserAccessRequest, error) {
	req := models.UserAccessRequest{RecordID: rec.ID}
	display := func(domain string) (string, error) {
		return r.fm.DomainToAirtableField(domain)
	}
	d, err := display("telegram_user_id")
	if err != nil {
		return req, err
	}
	req.TelegramUserID = getInt64(rec.Fields, d)
	if d, err = display("telegram_username"); err != nil {
		return req, err
	}
	req.TelegramUsername = getString(rec.Fields, d)
	if d, err = display("status"); err != nil {
		return req, err
	}
	req.Status = models.AccessStatus(getString(rec.Fields, d))
	if d, err = display("access_level"); err != nil {
		return req, err
	}
	req.AccessLevel = models.AccessLevel(getString(rec.Fields, d))
	if d, err = display("requested_at"); err != nil {
		return req, err
	}
	if ts, e := time.Parse(time.RFC3339, getString(rec.Fields, d)); e == nil {
		req.RequestedAt = ts
	}
	if d, err = display("reviewed_at"); err != nil {
		return req, err
	}
	if ts, e := time.Parse(time.RFC3339, getString(rec.Fields, d)); e == nil {
		req.ReviewedAt = &ts
	}
	if d, err = display("reviewed_by"); err != nil {
		return req, err
	}
	req.ReviewedBy = getString(rec.Fields, d)
	return req, nil
}

func (r *AccessRequests) Create(ctx context.Context, req *models.UserAccessRequest) (*models.UserAccessRequest, error) {
	if req.RecordID != "" {
		return nil, validationf("create expects a new request, got record_id %s", req.RecordID)
	}
	fields, err := r.toFields(req)
	if err != nil {
		return nil, fmt.Errorf("access_requests: %w", err)
	}
	rec, err := r.api.CreateRecord(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("access_requests: create: %w", err)
	}
	created := *req
	created.RecordID = rec.ID
	return &created, nil
}

// GetByTelegramID — поиск по естественному ключу; nil, если заявки нет.
func (r *AccessRequests) GetByTelegramID(ctx context.Context, userID int64) (*models.UserAccessRequest, error) {
	field, ok := r.fm.FormulaField("telegram_user_id")
	if !ok {
		return nil, validationf("telegram_user_id is not mapped")
	}
	recs, err := r.api.SearchByFormula(ctx, airtable.Equals(field, userID))
	if err != nil {
		return nil, fmt.Errorf("access_requests: search: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	req, err := r.fromRecord(recs[0])
	if err != nil {
		return nil, fmt.Errorf("access_requests: %w", err)
	}
	return &req, nil
}

func (r *AccessRequests) Update(ctx context.Context, req *models.UserAccessRequest) (*models.UserAccessRequest, error) {
	if req.RecordID == "" {
		return nil, validationf("update requires record_id")
	}
	fields, err := r.toFields(req)
	if err != nil {
		return nil, fmt.Errorf("access_requests: %w", err)
	}
	rec, err := r.api.UpdateRecord(ctx, req.RecordID, fields)
	if err != nil {
		var ae *airtable.APIError
		if errors.As(err, &ae) {
			if ae.IsNotFound() {
				return nil, fmt.Errorf("access_requests: update %s: %w", req.RecordID, ErrNotFound)
			}
			if ae.IsValidation() {
				return nil, validationf("update %s rejected: %v", req.RecordID, ae)
			}
		}
		return nil, fmt.Errorf("access_requests: update: %w", err)
	}
	updated, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("access_requests: %w", err)
	}
	return &updated, nil
}

// ListByStatus отдаёт страницу заявок и offset продолжения для
// постраничного обхода на стороне вызова.
func (r *AccessRequests) ListByStatus(ctx context.Context, status models.AccessStatus, offset string) ([]models.UserAccessRequest, string, error) {
	field, ok := r.fm.FormulaField("status")
	if !ok {
		return nil, "", validationf("status is not mapped")
	}
	sortField, err := r.fm.DomainToAirtableField("requested_at")
	if err != nil {
		return nil, "", fmt.Errorf("access_requests: %w", err)
	}
	recs, next, err := r.api.ListRecords(ctx, airtable.ListOptions{
		Formula: airtable.Equals(field, string(status)),
		Sort:    []airtable.SortField{{Field: sortField, Direction: "asc"}},
		Offset:  offset,
	})
	if err != nil {
		return nil, "", fmt.Errorf("access_requests: list: %w", err)
	}
	out := make([]models.UserAccessRequest, 0, len(recs))
	for _, rec := range recs {
		req, err := r.fromRecord(rec)
		if err != nil {
			return nil, "", fmt.Errorf("access_requests: %w", err)
		}
		out = append(out, req)
	}
	return out, next, nil
}
