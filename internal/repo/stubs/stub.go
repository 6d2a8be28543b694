// Package stubs — in-memory реализация airtable.API для тестов
// репозиториев и сервисов, без сети.
package stubs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
)

type StubAPI struct {
	mu        sync.Mutex
	TableName string
	Records   []airtable.Record
	Calls     []string
	FailWith  error // если задано — каждая операция возвращает эту ошибку

	nextID int
}

func New(table string) *StubAPI {
	return &StubAPI{TableName: table}
}

func (s *StubAPI) Table() string { return s.TableName }

func (s *StubAPI) record(op string) {
	s.Calls = append(s.Calls, op)
}

// CallCount — сколько раз звали операцию op.
func (s *StubAPI) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (s *StubAPI) Seed(recs ...airtable.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, recs...)
}

func (s *StubAPI) CreateRecord(_ context.Context, fields map[string]any) (*airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create")
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.nextID++
	rec := airtable.Record{ID: fmt.Sprintf("recStub%09d", s.nextID), Fields: clone(fields)}
	s.Records = append(s.Records, rec)
	return &rec, nil
}

func (s *StubAPI) GetRecord(_ context.Context, id string) (*airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get")
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, rec := range s.Records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (s *StubAPI) UpdateRecord(_ context.Context, id string, fields map[string]any) (*airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update")
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			if s.Records[i].Fields == nil {
				s.Records[i].Fields = map[string]any{}
			}
			for k, v := range fields {
				s.Records[i].Fields[k] = v
			}
			out := s.Records[i]
			return &out, nil
		}
	}
	return nil, &airtable.APIError{Op: "update", Status: 404, Err: fmt.Errorf("record %s not found", id)}
}

func (s *StubAPI) DeleteRecord(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete")
	if s.FailWith != nil {
		return false, s.FailWith
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *StubAPI) ListRecords(_ context.Context, opts airtable.ListOptions) ([]airtable.Record, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list")
	if s.FailWith != nil {
		return nil, "", s.FailWith
	}
	matched := s.filter(opts.Formula)
	start := 0
	if opts.Offset != "" {
		start, _ = strconv.Atoi(opts.Offset)
	}
	if start >= len(matched) {
		return nil, "", nil
	}
	end := len(matched)
	if opts.MaxRecords > 0 && start+opts.MaxRecords < end {
		end = start + opts.MaxRecords
	}
	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	}
	return clone2(matched[start:end]), next, nil
}

func (s *StubAPI) ListAll(ctx context.Context, opts airtable.ListOptions) ([]airtable.Record, error) {
	recs, _, err := s.ListRecords(ctx, airtable.ListOptions{Formula: opts.Formula})
	return recs, err
}

func (s *StubAPI) BulkCreate(ctx context.Context, fields []map[string]any) ([]airtable.Record, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]airtable.Record, 0, len(fields))
	for _, f := range fields {
		rec, err := s.CreateRecord(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *StubAPI) BulkUpdate(ctx context.Context, updates []airtable.RecordUpdate) ([]airtable.Record, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	out := make([]airtable.Record, 0, len(updates))
	for _, u := range updates {
		rec, err := s.UpdateRecord(ctx, u.ID, u.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *StubAPI) SearchByField(ctx context.Context, field string, value any) ([]airtable.Record, error) {
	return s.SearchByFormula(ctx, airtable.Equals("{"+field+"}", value))
}

func (s *StubAPI) SearchByFormula(_ context.Context, formula string) ([]airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("search")
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	return clone2(s.filter(formula)), nil
}

// filter понимает ровно то подмножество формул, которое строят
// репозитории: {Field} = value и AND(...) без запятых внутри значений.
func (s *StubAPI) filter(formula string) []airtable.Record {
	if formula == "" {
		return s.Records
	}
	conds := splitConds(formula)
	var out []airtable.Record
	for _, rec := range s.Records {
		ok := true
		for _, c := range conds {
			if !matches(c, rec) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

func splitConds(formula string) []string {
	formula = strings.TrimSpace(formula)
	if strings.HasPrefix(formula, "AND(") && strings.HasSuffix(formula, ")") {
		inner := formula[len("AND(") : len(formula)-1]
		parts := strings.Split(inner, ", ")
		return parts
	}
	return []string{formula}
}

func matches(cond string, rec airtable.Record) bool {
	if strings.HasPrefix(cond, "FIND(") {
		return matchesFind(cond, rec)
	}
	parts := strings.SplitN(cond, " = ", 2)
	if len(parts) != 2 {
		return false
	}
	field := strings.Trim(strings.TrimSpace(parts[0]), "{}")
	want := strings.TrimSpace(parts[1])
	want = strings.ReplaceAll(strings.Trim(want, "'"), "''", "'")
	got := rec.Fields[field]
	switch v := got.(type) {
	case string:
		return v == want
	case float64:
		return fmt.Sprintf("%v", v) == want
	case int:
		return strconv.Itoa(v) == want
	case int64:
		return strconv.FormatInt(v, 10) == want
	}
	return false
}

// matchesFind разбирает FIND('v', ARRAYJOIN({Field})) > 0: вхождение
// подстроки в склейку массива.
func matchesFind(cond string, rec airtable.Record) bool {
	inner, ok := strings.CutPrefix(cond, "FIND(")
	if !ok {
		return false
	}
	inner, ok = strings.CutSuffix(inner, ") > 0")
	if !ok {
		return false
	}
	parts := strings.SplitN(inner, ", ARRAYJOIN(", 2)
	if len(parts) != 2 {
		return false
	}
	needle := strings.ReplaceAll(strings.Trim(parts[0], "'"), "''", "'")
	field := strings.Trim(strings.TrimSuffix(parts[1], ")"), "{}")
	switch v := rec.Fields[field].(type) {
	case string:
		return strings.Contains(v, needle)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(s, needle) {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if strings.Contains(s, needle) {
				return true
			}
		}
	}
	return false
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clone2(recs []airtable.Record) []airtable.Record {
	out := make([]airtable.Record, len(recs))
	for i, r := range recs {
		out[i] = airtable.Record{ID: r.ID, Fields: clone(r.Fields), CreatedTime: r.CreatedTime}
	}
	return out
}

var _ airtable.API = (*StubAPI)(nil)
