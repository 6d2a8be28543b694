package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/fieldmap"
	"github.com/Spok95/telegram-event-bot/internal/models"
)

// Сколько ждём обнаружение этажей: фича некритичная, по истечении
// отдаём пустой список, а не ошибку.
const floorsTimeout = 10 * time.Second

type ScoredParticipant struct {
	Participant models.Participant
	Score       float64
}

// Participants — репозиторий участников поверх таблицы Airtable.
type Participants struct {
	api    airtable.API
	fm     *fieldmap.Mapping
	scorer Scorer
	cache  *ttlCache[[]models.Participant]
	floors *ttlCache[[]int]
}

func NewParticipants(api airtable.API, scorer Scorer) *Participants {
	return &Participants{
		api:    api,
		fm:     fieldmap.Participants,
		scorer: scorer,
		cache:  newTTLCache[[]models.Participant](listCacheTTL),
		floors: newTTLCache[[]int](listCacheTTL),
	}
}

func (r *Participants) invalidate() {
	r.cache.invalidate(r.api.Table())
	r.floors.invalidate(r.api.Table())
}

func (r *Participants) toFields(p *models.Participant) (map[string]any, error) {
	domain := map[string]any{
		"full_name_ru": p.FullNameRU,
		"full_name_en": p.FullNameEN,
		"gender":       p.Gender,
		"size":         p.Size,
		"role":         string(p.Role),
		"department":   string(p.Department),
		"room_number":  p.RoomNumber,
		"contact_info": p.ContactInfo,
		"notes":        p.Notes,
	}
	if p.FloorNumber != 0 {
		domain["floor_number"] = p.FloorNumber
	}
	if len(p.TableGroupIDs) > 0 {
		domain["table_group_ids"] = p.TableGroupIDs
	}
	out := make(map[string]any, len(domain))
	for name, v := range r.fm.WritableFields(domain) {
		if s, ok := v.(string); ok && s == "" {
			continue // пустые строки не пишем, чтобы не затирать поля
		}
		display, err := r.fm.DomainToAirtableField(name)
		if err != nil {
			return nil, err
		}
		out[display] = v
	}
	return out, nil
}

func (r *Participants) fromRecord(rec airtable.Record) (models.Participant, error) {
	p := models.Participant{RecordID: rec.ID}
	read := func(domain string) (string, error) {
		display, err := r.fm.DomainToAirtableField(domain)
		if err != nil {
			return "", err
		}
		return display, nil
	}
	for domain, dst := range map[string]*string{
		"full_name_ru": &p.FullNameRU,
		"full_name_en": &p.FullNameEN,
		"gender":       &p.Gender,
		"size":         &p.Size,
		"room_number":  &p.RoomNumber,
		"contact_info": &p.ContactInfo,
		"notes":        &p.Notes,
	} {
		display, err := read(domain)
		if err != nil {
			return p, err
		}
		*dst = getString(rec.Fields, display)
	}
	if display, err := read("role"); err == nil {
		p.Role = models.Role(getString(rec.Fields, display))
	} else {
		return p, err
	}
	if display, err := read("department"); err == nil {
		p.Department = models.Department(getString(rec.Fields, display))
	} else {
		return p, err
	}
	if display, err := read("floor_number"); err == nil {
		p.FloorNumber = getInt(rec.Fields, display)
	} else {
		return p, err
	}
	if display, err := read("table_group_ids"); err == nil {
		p.TableGroupIDs = getStrings(rec.Fields, display)
	} else {
		return p, err
	}
	// church — lookup, приходит массивом из связанной записи
	if display, err := read("church"); err == nil {
		if vals := getStrings(rec.Fields, display); len(vals) > 0 {
			p.Church = vals[0]
		} else {
			p.Church = getString(rec.Fields, display)
		}
	}
	return p, nil
}

// Create сохраняет нового участника. Запись с уже проставленным
// RecordID — ошибка вызова. Дубликат по контактам ищется pre-flight
// чтением: под гонку двух писателей это не защищает.
func (r *Participants) Create(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	if p.RecordID != "" {
		return nil, validationf("create expects a new participant, got record_id %s", p.RecordID)
	}
	if p.FullNameRU == "" {
		return nil, validationf("full_name_ru is required")
	}
	if p.ContactInfo != "" {
		field, _ := r.fm.FormulaField("contact_info")
		existing, err := r.api.SearchByFormula(ctx, airtable.Equals(field, p.ContactInfo))
		if err != nil {
			return nil, fmt.Errorf("participants: duplicate check: %w", err)
		}
		if len(existing) > 0 {
			return nil, &DuplicateError{Field: "contact_info", Value: p.ContactInfo}
		}
	}
	fields, err := r.toFields(p)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	rec, err := r.api.CreateRecord(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("participants: create: %w", err)
	}
	r.invalidate()
	created := *p
	created.RecordID = rec.ID
	return &created, nil
}

func (r *Participants) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	rec, err := r.api.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("participants: get: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	p, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	return &p, nil
}

func (r *Participants) Update(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	if p.RecordID == "" {
		return nil, validationf("update requires record_id")
	}
	fields, err := r.toFields(p)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	rec, err := r.api.UpdateRecord(ctx, p.RecordID, fields)
	if err != nil {
		var ae *airtable.APIError
		if errors.As(err, &ae) {
			if ae.IsNotFound() {
				return nil, fmt.Errorf("participants: update %s: %w", p.RecordID, ErrNotFound)
			}
			if ae.IsValidation() {
				return nil, validationf("update %s rejected: %v", p.RecordID, ae)
			}
		}
		return nil, fmt.Errorf("participants: update: %w", err)
	}
	r.invalidate()
	updated, err := r.fromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	return &updated, nil
}

func (r *Participants) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.api.DeleteRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("participants: delete: %w", err)
	}
	if ok {
		r.invalidate()
	}
	return ok, nil
}

func (r *Participants) BulkCreate(ctx context.Context, ps []models.Participant) ([]airtable.Record, error) {
	fields := make([]map[string]any, 0, len(ps))
	for i := range ps {
		f, err := r.toFields(&ps[i])
		if err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		fields = append(fields, f)
	}
	recs, err := r.api.BulkCreate(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("participants: bulk create: %w", err)
	}
	r.invalidate()
	return recs, nil
}

// BulkUpdate обновляет участников пачками; каждому нужен record_id.
func (r *Participants) BulkUpdate(ctx context.Context, ps []models.Participant) ([]airtable.Record, error) {
	updates := make([]airtable.RecordUpdate, 0, len(ps))
	for i := range ps {
		if ps[i].RecordID == "" {
			return nil, validationf("bulk update requires record_id on every participant")
		}
		fields, err := r.toFields(&ps[i])
		if err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		updates = append(updates, airtable.RecordUpdate{ID: ps[i].RecordID, Fields: fields})
	}
	recs, err := r.api.BulkUpdate(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("participants: bulk update: %w", err)
	}
	r.invalidate()
	return recs, nil
}

// SearchByCriteria строит AND-формулу только из распознанных полей;
// незнакомый ключ — ошибка сразу, а не молчаливый пропуск.
func (r *Participants) SearchByCriteria(ctx context.Context, criteria map[string]any) ([]models.Participant, error) {
	if len(criteria) == 0 {
		return nil, validationf("empty search criteria")
	}
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys) // детерминированная формула
	conds := make([]string, 0, len(keys))
	for _, k := range keys {
		field, ok := r.fm.FormulaField(k)
		if !ok {
			return nil, validationf("unsupported search field %q", k)
		}
		conds = append(conds, airtable.Equals(field, criteria[k]))
	}
	recs, err := r.api.SearchByFormula(ctx, airtable.And(conds...))
	if err != nil {
		return nil, fmt.Errorf("participants: search: %w", err)
	}
	out := make([]models.Participant, 0, len(recs))
	for _, rec := range recs {
		p, err := r.fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ListAll отдаёт полный список через короткоживущий кэш (ключ — таблица).
func (r *Participants) ListAll(ctx context.Context) ([]models.Participant, error) {
	if cached, ok := r.cache.get(r.api.Table()); ok {
		return cached, nil
	}
	recs, err := r.api.ListAll(ctx, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("participants: list: %w", err)
	}
	out := make([]models.Participant, 0, len(recs))
	for _, rec := range recs {
		p, err := r.fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		out = append(out, p)
	}
	r.cache.put(r.api.Table(), out)
	return out, nil
}

// SearchByNameFuzzy — клиентский нечёткий поиск по обоим вариантам имени.
// Пустой запрос и пустая таблица дают пустой результат.
func (r *Participants) SearchByNameFuzzy(ctx context.Context, query string, threshold float64, limit int) ([]ScoredParticipant, error) {
	if query == "" {
		return nil, nil
	}
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	scored := make([]ScoredParticipant, 0, len(all))
	for _, p := range all {
		score := r.scorer.Score(query, p.FullNameRU)
		if s := r.scorer.Score(query, p.FullNameEN); s > score {
			score = s
		}
		if score >= threshold {
			scored = append(scored, ScoredParticipant{Participant: p, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// ListFloors собирает уникальные этажи размещения. Некритичная фича:
// по таймауту или ошибке — пустой список без ошибки.
func (r *Participants) ListFloors(ctx context.Context) []int {
	if cached, ok := r.floors.get(r.api.Table()); ok {
		return cached
	}
	ctx, cancel := context.WithTimeout(ctx, floorsTimeout)
	defer cancel()

	display, err := r.fm.DomainToAirtableField("floor_number")
	if err != nil {
		return nil
	}
	recs, err := r.api.ListAll(ctx, airtable.ListOptions{Fields: []string{display}})
	if err != nil {
		return nil
	}
	seen := map[int]bool{}
	floors := []int{}
	for _, rec := range recs {
		if f := getInt(rec.Fields, display); f != 0 && !seen[f] {
			seen[f] = true
			floors = append(floors, f)
		}
	}
	sort.Ints(floors)
	r.floors.put(r.api.Table(), floors)
	return floors
}
