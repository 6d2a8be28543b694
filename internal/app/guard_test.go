package app

import (
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestHasLevel(t *testing.T) {
	admin := Authz{Allowed: true, Level: models.LevelAdmin}
	assert.True(t, admin.HasLevel(models.LevelViewer))
	assert.True(t, admin.HasLevel(models.LevelCoordinator))
	assert.True(t, admin.HasLevel(models.LevelAdmin))

	viewer := Authz{Allowed: true, Level: models.LevelViewer}
	assert.True(t, viewer.HasLevel(models.LevelViewer))
	assert.False(t, viewer.HasLevel(models.LevelCoordinator))

	// без Allowed уровень не имеет значения
	denied := Authz{Allowed: false, Level: models.LevelAdmin}
	assert.False(t, denied.HasLevel(models.LevelViewer))
}
