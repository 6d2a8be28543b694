package repo

import (
	"context"
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/airtable"
	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/repo/stubs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBibleReadersCreate(t *testing.T) {
	api := stubs.New("BibleReaders")
	r := NewBibleReaders(api)

	var ve *ValidationError
	_, err := r.Create(context.Background(), &models.BibleReader{When: "утро"})
	require.ErrorAs(t, err, &ve, "отрывок обязателен")

	created, err := r.Create(context.Background(), &models.BibleReader{
		Passage:        "Ин. 3:16",
		When:           "утро пятницы",
		ParticipantIDs: []string{"recP1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)

	require.Len(t, api.Records, 1)
	fields := api.Records[0].Fields
	assert.Equal(t, "Ин. 3:16", fields["Passage"])
	assert.Equal(t, []string{"recP1"}, fields["Participants"])
}

func TestBibleReadersListByParticipant(t *testing.T) {
	api := stubs.New("BibleReaders")
	api.Seed(
		airtable.Record{ID: "rec1", Fields: map[string]any{
			"Passage":         "Ин. 3:16",
			"ParticipantName": []any{"Иванов Иван"},
		}},
		airtable.Record{ID: "rec2", Fields: map[string]any{
			"Passage":         "Пс. 22",
			"ParticipantName": []any{"Петров Пётр", "Иванов Иван"},
		}},
		airtable.Record{ID: "rec3", Fields: map[string]any{
			"Passage":         "Рим. 8",
			"ParticipantName": []any{"Сидоров Сидор"},
		}},
	)
	r := NewBibleReaders(api)

	got, err := r.ListByParticipant(context.Background(), "Иванов Иван")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ин. 3:16", got[0].Passage)
	assert.Equal(t, []string{"Петров Пётр", "Иванов Иван"}, got[1].ParticipantNames)
}
