package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/models"
)

// ROESessions — репозиторий сессий ROE.
type ROESessions struct {
	api airtable.API
	fm  *fieldmap.Mapping
}

func NewROESessions(api airtable.API) *ROESessions {
	return &ROESessions{api: api, fm: fieldmap.ROE}
}

func (r *ROESessions) toFields(s *models.ROE) (map[string]any, error) {
	domain := map[string]any{
		"topic": s.Topic,
		"when":  s.When,
	}
	if s.Duration != 0 {
		domain["duration"] = s.Duration
	}
	if len(s.PresenterIDs) > 0 {
		domain["presenter_ids"] = s.PresenterIDs
	}
	if len(s.AssistantIDs) > 0 {
		domain["assistant_ids"] = s.AssistantIDs
	}
	out := make(map[string]any, len(domain))
	for name, v := range r.fm.WritableFields(domain) {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		display, err := r.fm.DomainToAirtableField(name)
		if err != nil {
			return nil, err
		}
		out[display] = v
	}
	return out, nil
}

func (r *ROESessions) fromRecord(rec airtable.Record) (models.ROE, error) {
	s := models.ROE{RecordID: rec.ID}
	for domain, dst := range map[string]*string{
		"topic": &s.Topic,
		"when":  &s.When,
	} {
		display, err := r.fm.DomainToAirtableField(domain)
		if err != nil {
			return s, err
		}
		*dst = getString(rec.Fields, display)
	}
	if display, err := r.fm.DomainToAirtableField("duration"); err == nil {
		s.Duration = getInt(rec.Fields, display)
	} else {
		return s, err
	}
	for domain, dst := range map[string]*[]string{
		"presenter_ids":      &s.PresenterIDs,
		"assistant_ids":      &s.AssistantIDs,
		"presenter_names":    &s.PresenterNames,
		"assistant_names":    &s.AssistantNames,
		"presenter_churches": &s.PresenterChurches,
	} {
		display, err := r.fm.DomainToAirtableField(domain)
		if err != nil {
			return s, err
		}
		*dst = getStrings(rec.Fields, display)
	}
	return s, nil
}

// Create требует хотя бы одного докладчика — основного или ассистента.
func (r *ROESessions) Create(ctx context.Context, s *models.ROE) (*models.ROE, error) {
	if s.RecordID != "" {
		return nil, validationf("create expects a new session, got record_id %s", s.RecordID)
	}
	if s.Topic == "" {
		return nil, validationf("topic is required")
	}
	if !s.HasPresenter() {
		return nil, validationf("a ROE session needs a presenter or an assistant")
	}
	fields, err := r.toFields(s)
	if err != nil {
		return nil, fmt.Errorf("roe: %w", err)
	}
	rec, err := r.api.CreateRecord(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("roe: create: %w", err)
	}
	created := *s
	created.RecordID = rec.ID
	return &created, nil
}

func (r *ROESessions) GetByID(ctx context.Context, id string) (*models.ROE, error) {
	rec, err := r.api.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("roe: get: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	s, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("roe: %w", err)
	}
	return &s, nil
}

func (r *ROESessions) Update(ctx context.Context, s *models.ROE) (*models.ROE, error) {
	if s.RecordID == "" {
		return nil, validationf("update requires record_id")
	}
	if !s.HasPresenter() {
		return nil, validationf("a ROE session needs a presenter or an assistant")
	}
	fields, err := r.toFields(s)
	if err != nil {
		return nil, fmt.Errorf("roe: %w", err)
	}
	rec, err := r.api.UpdateRecord(ctx, s.RecordID, fields)
	if err != nil {
		var ae *airtable.APIError
		if errors.As(err, &ae) {
			if ae.IsNotFound() {
				return nil, fmt.Errorf("roe: update %s: %w", s.RecordID, ErrNotFound)
			}
			if ae.IsValidation() {
				return nil, validationf("update %s rejected: %v", s.RecordID, ae)
			}
		}
		return nil, fmt.Errorf("roe: update: %w", err)
	}
	updated, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("roe: %w", err)
	}
	return &updated, nil
}

func (r *ROESessions) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.api.DeleteRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("roe: delete: %w", err)
	}
	return ok, nil
}

func (r *ROESessions) ListAll(ctx context.Context) ([]models.ROE, error) {
	recs, err := r.api.ListAll(ctx, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("roe: list: %w", err)
	}
	out := make([]models.ROE, 0, len(recs))
	for _, rec := range recs {
		s, err := r.fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("roe: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}
