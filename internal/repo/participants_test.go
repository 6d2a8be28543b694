package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/repo/stubs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactScorer: 1.0 при совпадении без учёта регистра, иначе 0.
// Настоящий скоринг проверяется в internal/service.
type exactScorer struct{}

func (exactScorer) Score(query, candidate string) float64 {
	if strings.EqualFold(query, candidate) {
		return 1
	}
	return 0
}

func seedParticipant(api *stubs.StubAPI, id, nameRU, role, contact string, floor int) {
	api.Seed(airtable.Record{ID: id, Fields: map[string]any{
		"FullNameRU":         nameRU,
		"Role":               role,
		"ContactInformation": contact,
		"Floor":              float64(floor),
	}})
}

func TestParticipantsCreateValidation(t *testing.T) {
	r := NewParticipants(stubs.New("Participants"), exactScorer{})

	var ve *ValidationError
	_, err := r.Create(context.Background(), &models.Participant{RecordID: "rec1", FullNameRU: "Иванов"})
	require.ErrorAs(t, err, &ve)

	_, err = r.Create(context.Background(), &models.Participant{Gender: "M"})
	require.ErrorAs(t, err, &ve)
}

func TestParticipantsCreateDuplicateContact(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	r := NewParticipants(api, exactScorer{})

	_, err := r.Create(context.Background(), &models.Participant{
		FullNameRU:  "Другой Иванов",
		ContactInfo: "@ivan",
	})
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "contact_info", de.Field)
	// до записи дело не дошло
	assert.Zero(t, api.CallCount("create"))
}

func TestParticipantsCreateSkipsEmptyAndLookups(t *testing.T) {
	api := stubs.New("Participants")
	r := NewParticipants(api, exactScorer{})

	created, err := r.Create(context.Background(), &models.Participant{
		FullNameRU: "Иванов Иван",
		Gender:     "M",
		Role:       models.RoleTeam,
		Church:     "Грейс", // lookup: на запись идти не должен
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)

	require.Len(t, api.Records, 1)
	fields := api.Records[0].Fields
	assert.Equal(t, "Иванов Иван", fields["FullNameRU"])
	assert.Equal(t, "TEAM", fields["Role"])
	assert.NotContains(t, fields, "Church")
	// пустые строки не пишутся
	assert.NotContains(t, fields, "Notes")
	assert.NotContains(t, fields, "RoomNumber")
}

func TestParticipantsSearchByCriteria(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	seedParticipant(api, "rec2", "Петров Пётр", "TEAM", "@petr", 3)
	seedParticipant(api, "rec3", "Сидоров Сидор", "CANDIDATE", "@sidr", 2)
	r := NewParticipants(api, exactScorer{})

	got, err := r.SearchByCriteria(context.Background(), map[string]any{"role": "TEAM"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, models.RoleTeam, p.Role)
	}

	// несколько критериев собираются в AND
	got, err = r.SearchByCriteria(context.Background(), map[string]any{
		"role":         "TEAM",
		"contact_info": "@petr",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Петров Пётр", got[0].FullNameRU)

	var ve *ValidationError
	_, err = r.SearchByCriteria(context.Background(), map[string]any{"no_such": 1})
	require.ErrorAs(t, err, &ve)

	_, err = r.SearchByCriteria(context.Background(), nil)
	require.ErrorAs(t, err, &ve)
}

func TestParticipantsListAllCaching(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	r := NewParticipants(api, exactScorer{})

	_, err := r.ListAll(context.Background())
	require.NoError(t, err)
	_, err = r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.CallCount("list"), "второй вызов должен идти из кэша")

	// запись инвалидирует кэш
	_, err = r.Create(context.Background(), &models.Participant{FullNameRU: "Новиков"})
	require.NoError(t, err)
	got, err := r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.CallCount("list"))
	assert.Len(t, got, 2)
}

func TestParticipantsBulkUpdate(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	seedParticipant(api, "rec2", "Петров Пётр", "TEAM", "@petr", 3)
	r := NewParticipants(api, exactScorer{})

	// прогреваем кэш списков
	_, err := r.ListAll(context.Background())
	require.NoError(t, err)

	recs, err := r.BulkUpdate(context.Background(), []models.Participant{
		{RecordID: "rec1", FullNameRU: "Иванов Иван", RoomNumber: "101"},
		{RecordID: "rec2", FullNameRU: "Петров Пётр", RoomNumber: "102"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "101", api.Records[0].Fields["RoomNumber"])
	assert.Equal(t, "102", api.Records[1].Fields["RoomNumber"])

	// запись инвалидирует кэш списков
	_, err = r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.CallCount("list"))
}

func TestParticipantsBulkUpdateRequiresRecordID(t *testing.T) {
	api := stubs.New("Participants")
	r := NewParticipants(api, exactScorer{})

	var ve *ValidationError
	_, err := r.BulkUpdate(context.Background(), []models.Participant{
		{FullNameRU: "Без ID"},
	})
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, api.CallCount("update"))
}

func TestParticipantsSearchByNameFuzzy(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	seedParticipant(api, "rec2", "Петров Пётр", "TEAM", "@petr", 3)
	r := NewParticipants(api, exactScorer{})

	got, err := r.SearchByNameFuzzy(context.Background(), "", 0.5, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.SearchByNameFuzzy(context.Background(), "иванов иван", 0.5, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec1", got[0].Participant.RecordID)
	assert.Equal(t, 1.0, got[0].Score)

	// ничего выше порога
	got, err = r.SearchByNameFuzzy(context.Background(), "Кузнецов", 0.5, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParticipantsListFloors(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 3)
	seedParticipant(api, "rec2", "Петров Пётр", "TEAM", "@petr", 1)
	seedParticipant(api, "rec3", "Сидоров Сидор", "CANDIDATE", "@sidr", 1)
	api.Seed(airtable.Record{ID: "rec4", Fields: map[string]any{"FullNameRU": "Без этажа"}})
	r := NewParticipants(api, exactScorer{})

	assert.Equal(t, []int{1, 3}, r.ListFloors(context.Background()))
}

func TestParticipantsListFloorsSwallowsErrors(t *testing.T) {
	api := stubs.New("Participants")
	api.FailWith = &airtable.APIError{Op: "list", Status: 503, Err: assert.AnError}
	r := NewParticipants(api, exactScorer{})

	assert.Empty(t, r.ListFloors(context.Background()))
}

func TestParticipantsUpdateNotFound(t *testing.T) {
	r := NewParticipants(stubs.New("Participants"), exactScorer{})

	_, err := r.Update(context.Background(), &models.Participant{
		RecordID:   "recMissing",
		FullNameRU: "Иванов",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParticipantsDelete(t *testing.T) {
	api := stubs.New("Participants")
	seedParticipant(api, "rec1", "Иванов Иван", "TEAM", "@ivan", 2)
	r := NewParticipants(api, exactScorer{})

	ok, err := r.Delete(context.Background(), "rec1")
	require.NoError(t, err)
	assert.True(t, ok)

	// повторное удаление — не ошибка
	ok, err = r.Delete(context.Background(), "rec1")
	require.NoError(t, err)
	assert.False(t, ok)
}
