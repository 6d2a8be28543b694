package repo

import (
	"context"
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/repo/stubs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestROECreateRequiresPresenter(t *testing.T) {
	r := NewROESessions(stubs.New("ROE"))

	var ve *ValidationError
	_, err := r.Create(context.Background(), &models.ROE{Topic: "Благодать"})
	require.ErrorAs(t, err, &ve)

	_, err = r.Create(context.Background(), &models.ROE{
		PresenterIDs: []string{"recP1"},
	})
	require.ErrorAs(t, err, &ve, "тема обязательна")

	// ассистента без основного достаточно
	created, err := r.Create(context.Background(), &models.ROE{
		Topic:        "Благодать",
		AssistantIDs: []string{"recA1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)
}

func TestROEUpdateRequiresPresenter(t *testing.T) {
	api := stubs.New("ROE")
	r := NewROESessions(api)

	created, err := r.Create(context.Background(), &models.ROE{
		Topic:        "Благодать",
		PresenterIDs: []string{"recP1"},
	})
	require.NoError(t, err)

	var ve *ValidationError
	_, err = r.Update(context.Background(), &models.ROE{
		RecordID: created.RecordID,
		Topic:    "Благодать",
	})
	require.ErrorAs(t, err, &ve)

	updated, err := r.Update(context.Background(), &models.ROE{
		RecordID:     created.RecordID,
		Topic:        "Прощение",
		PresenterIDs: []string{"recP2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Прощение", updated.Topic)
}

func TestROEListAll(t *testing.T) {
	api := stubs.New("ROE")
	r := NewROESessions(api)

	for _, topic := range []string{"Благодать", "Прощение"} {
		_, err := r.Create(context.Background(), &models.ROE{
			Topic:        topic,
			PresenterIDs: []string{"recP1"},
		})
		require.NoError(t, err)
	}

	got, err := r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
