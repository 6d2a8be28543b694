package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteParticipantsCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteParticipantsCSV([]models.Participant{
		{
			FullNameRU:  "Иванов Иван",
			FullNameEN:  "Ivanov Ivan",
			Gender:      "M",
			Role:        models.RoleTeam,
			FloorNumber: 3,
			ContactInfo: "@ivan",
		},
		{FullNameRU: "Петрова Мария", Gender: "F", Role: models.RoleCandidate},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^participants_\d{8}_\d{6}\.csv$`, filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "файл должен начинаться с UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Иванов Иван", records[1][0])
	assert.Equal(t, "TEAM", records[1][5])
	assert.Equal(t, "3", records[1][7])
	// нулевой этаж — пустая ячейка
	assert.Equal(t, "", records[2][7])
}

func TestWriteParticipantsCSVEmptyList(t *testing.T) {
	path, err := WriteParticipantsCSV(nil, t.TempDir())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "только заголовок")
}
