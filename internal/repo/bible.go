package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/models"
)

// BibleReaders — репозиторий назначений на чтение Писания.
type BibleReaders struct {
	api airtable.API
	fm  *fieldmap.Mapping
}

func NewBibleReaders(api airtable.API) *BibleReaders {
	return &BibleReaders{api: api, fm: fieldmap.BibleReaders}
}

func (r *BibleReaders) toFields(b *models.BibleReader) (map[string]any, error) {
	domain := map[string]any{
		"passage": b.Passage,
		"when":    b.When,
		"where":   b.Where,
	}
	if len(b.ParticipantIDs) > 0 {
		domain["participant_ids"] = b.ParticipantIDs
	}
	out := make(map[string]any, len(domain))
	for name, v := range r.fm.WritableFields(domain) {
		if s, ok := v.(string); ok && s == "" {
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

func (r *BibleReaders) fromRecord(rec airtable.Record) (models.BibleReader, error) {
	b := models.BibleReader{RecordID: rec.ID}
	for domain, dst := range map[string]*string{
		"passage": &b.Passage,
		"when":    &b.When,
		"where":   &b.Where,
	} {
		display, err := r.fm.DomainToAirtableField(domain)
		if err != nil {
			return b, err
		}
		*dst = getString(rec.Fields, display)
	}
	for domain, dst := range map[string]*[]string{
		"participant_ids":   &b.ParticipantIDs,
		"participant_names": &b.ParticipantNames,
		"church_names":      &b.ChurchNames,
		"room_numbers":      &b.RoomNumbers,
	} {
		display, err := r.fm.DomainToAirtableField(domain)
		if err != nil {
			return b, err
		}
		*dst = getStrings(rec.Fields, display)
	}
	return b, nil
}

func (r *BibleReaders) Create(ctx context.Context, b *models.BibleReader) (*models.BibleReader, error) {
	if b.RecordID != "" {
		return nil, validationf("create expects a new reading, got record_id %s", b.RecordID)
	}
	if b.Passage == "" {
		return nil, validationf("passage is required")
	}
	fields, err := r.toFields(b)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: %w", err)
	}
	rec, err := r.api.CreateRecord(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: create: %w", err)
	}
	created := *b
	created.RecordID = rec.ID
	return &created, nil
}

func (r *BibleReaders) GetByID(ctx context.Context, id string) (*models.BibleReader, error) {
	rec, err := r.api.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: get: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	b, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: %w", err)
	}
	return &b, nil
}

func (r *BibleReaders) Update(ctx context.Context, b *models.BibleReader) (*models.BibleReader, error) {
	if b.RecordID == "" {
		return nil, validationf("update requires record_id")
	}
	fields, err := r.toFields(b)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: %w", err)
	}
	rec, err := r.api.UpdateRecord(ctx, b.RecordID, fields)
	if err != nil {
		var ae *airtable.APIError
		if errors.As(err, &ae) {
			if ae.IsNotFound() {
				return nil, fmt.Errorf("bible_readers: update %s: %w", b.RecordID, ErrNotFound)
			}
			if ae.IsValidation() {
				return nil, validationf("update %s rejected: %v", b.RecordID, ae)
			}
		}
		return nil, fmt.Errorf("bible_readers: update: %w", err)
	}
	updated, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("bible_readers: %w", err)
	}
	return &updated, nil
}

func (r *BibleReaders) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.api.DeleteRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("bible_readers: delete: %w", err)
	}
	return ok, nil
}

func (r *BibleReaders) ListAll(ctx context.Context) ([]models.BibleReader, error) {
	recs, err := r.api.ListAll(ctx, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("bible_readers: list: %w", err)
	}
	out := make([]models.BibleReader, 0, len(recs))
	for _, rec := range recs {
		b, err := r.fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("bible_readers: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

// ListByParticipant находит чтения, в которые включён участник, через
// FIND по связанному полю.
func (r *BibleReaders) ListByParticipant(ctx context.Context, participantName string) ([]models.BibleReader, error) {
	field, ok := r.fm.FormulaField("participant_names")
	if !ok {
		return nil, validationf("participant_names is not mapped")
	}
	recs, err := r.api.SearchByFormula(ctx, airtable.FindInArray(field, participantName))
	if err != nil {
		return nil, fmt.Errorf("bible_readers: search: %w", err)
	}
	out := make([]models.BibleReader, 0, len(recs))
	for _, rec := range recs {
		b, err := r.fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("bible_readers: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}
