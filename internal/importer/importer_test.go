package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParticipants struct {
	existing []models.Participant
	created  []models.Participant
	failWith error
}

func (f *fakeParticipants) Create(_ context.Context, p *models.Participant) (*models.Participant, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := *p
	out.RecordID = fmt.Sprintf("rec%03d", len(f.created)+1)
	f.created = append(f.created, out)
	return &out, nil
}

func (f *fakeParticipants) ListAll(_ context.Context) ([]models.Participant, error) {
	return f.existing, nil
}

const sampleCSV = "\ufeff" + `FullNameRU,FullNameEN,Gender,Role,ContactInformation
Иванов Иван,Ivanov Ivan,M,team,@ivan
Петрова Мария,Petrova Maria,F,candidate,@maria
,Nameless Nobody,M,candidate,@nobody
`

func TestParseCSV(t *testing.T) {
	im := New(&fakeParticipants{}, nil)

	rows, err := im.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// BOM не мешает первой колонке заголовка
	assert.Equal(t, "Иванов Иван", rows[0].Participant.FullNameRU)
	assert.Equal(t, models.RoleTeam, rows[0].Participant.Role, "роль нормализуется к верхнему регистру")
	assert.Equal(t, "@ivan", rows[0].Participant.ContactInfo)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 4, rows[2].Line)
}

func TestParseCSVIgnoresUnknownColumns(t *testing.T) {
	im := New(&fakeParticipants{}, nil)

	rows, err := im.ParseCSV(strings.NewReader("FullNameRU,Whatever\nИванов,junk\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Иванов", rows[0].Participant.FullNameRU)
}

func TestRunDryRun(t *testing.T) {
	store := &fakeParticipants{}
	im := New(store, nil)

	rows, err := im.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report, err := im.Run(context.Background(), rows, Options{DryRun: true, PreviewSamples: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.ValidationErrors)
	assert.Zero(t, report.Duplicates)
	assert.Zero(t, report.Failed)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Previews, 2)

	// сухой прогон ничего не пишет
	assert.Empty(t, store.created)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, 4, report.Errors[0].Line)
	assert.Contains(t, report.Errors[0].Msg, "FullNameRU")
}

func TestRunLiveWrites(t *testing.T) {
	store := &fakeParticipants{}
	im := New(store, nil)

	rows, err := im.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report, err := im.Run(context.Background(), rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Successful)
	require.Len(t, store.created, 2)
	assert.Equal(t, "Иванов Иван", store.created[0].FullNameRU)
}

func TestRunSkipsExistingDuplicates(t *testing.T) {
	store := &fakeParticipants{
		existing: []models.Participant{{RecordID: "rec0", FullNameRU: "Старый", ContactInfo: "@ivan"}},
	}
	im := New(store, nil)

	rows, err := im.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report, err := im.Run(context.Background(), rows, Options{DryRun: true})
	require.NoError(t, err)
	// Иванов совпал по контакту с существующей записью
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.ValidationErrors)
}

func TestRunSkipsDuplicatesWithinFile(t *testing.T) {
	im := New(&fakeParticipants{}, nil)

	csv := `FullNameRU,Gender,ContactInformation
Иванов Иван,M,@ivan
Иванов И.,M,@ivan
`
	rows, err := im.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	report, err := im.Run(context.Background(), rows, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Duplicates)
}

func TestRunCountsRepoDuplicateAsDuplicate(t *testing.T) {
	store := &fakeParticipants{
		failWith: &repo.DuplicateError{Field: "contact_info", Value: "@ivan"},
	}
	im := New(store, nil)

	rows := []Row{{Line: 2, Participant: models.Participant{FullNameRU: "Иванов", Gender: "M"}}}
	report, err := im.Run(context.Background(), rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Duplicates)
	assert.Zero(t, report.Failed)
}

func TestRunMaxRecords(t *testing.T) {
	store := &fakeParticipants{}
	im := New(store, nil)

	rows, err := im.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report, err := im.Run(context.Background(), rows, Options{DryRun: true, MaxRecords: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 3, report.TotalRows, "total считает все разобранные строки")
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeParticipants{}
	im := New(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []Row{{Line: 2, Participant: models.Participant{FullNameRU: "Иванов", Gender: "M"}}}
	_, err := im.Run(ctx, rows, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.created)
}
