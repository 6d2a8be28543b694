package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, m := range []*Mapping{Participants, BibleReaders, ROE, AccessRequests} {
		for domain := range m.domainToDisplay {
			display, err := m.DomainToAirtableField(domain)
			require.NoError(t, err)
			back, err := m.AirtableToDomainField(display)
			require.NoError(t, err)
			assert.Equal(t, domain, back)
		}
	}
}

func TestStrictLookupFails(t *testing.T) {
	_, err := Participants.DomainToAirtableField("no_such_field")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = Participants.AirtableToDomainField("NoSuchColumn")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSoftLookupDoesNotFail(t *testing.T) {
	_, ok := Participants.DisplayName("no_such_field")
	assert.False(t, ok)

	_, ok = Participants.FieldID("NoSuchColumn")
	assert.False(t, ok)
}

func TestTranslateFieldsToIDs_PassThroughUnknown(t *testing.T) {
	out := Participants.TranslateFieldsToIDs(map[string]any{
		"FullNameRU":  "Иванов Иван",
		"CustomField": "x",
	})
	id, _ := Participants.FieldID("FullNameRU")
	assert.Equal(t, "Иванов Иван", out[id])
	assert.Equal(t, "x", out["CustomField"]) // незнакомый ключ — как есть
	assert.NotContains(t, out, "FullNameRU")
}

func TestTranslateOptionToID(t *testing.T) {
	got := Participants.TranslateOptionToID("Role", "TEAM")
	assert.Equal(t, "selHdRx7jNfLb4sEw", got)

	// неизвестное значение проходит без изменений
	assert.Equal(t, "WHATEVER", Participants.TranslateOptionToID("Role", "WHATEVER"))
	// поле без опций — тоже
	assert.Equal(t, "42", Participants.TranslateOptionToID("RoomNumber", "42"))
}

func TestTranslateOptionToID_MultiSelect(t *testing.T) {
	got := Participants.TranslateOptionToID("Department", []string{"Kitchen", "Unknown"})
	assert.Equal(t, []string{"selBwFy6dMjRa2uLq", "Unknown"}, got)
}

func TestFormulaField(t *testing.T) {
	f, ok := Participants.FormulaField("full_name_ru")
	require.True(t, ok)
	assert.Equal(t, "{FullNameRU}", f)

	_, ok = Participants.FormulaField("no_such_field")
	assert.False(t, ok)
}

func TestWritableExcludesLookups(t *testing.T) {
	// church — lookup, на запись не идёт
	assert.False(t, Participants.IsWritable("church"))
	assert.True(t, Participants.IsWritable("full_name_ru"))

	out := Participants.WritableFields(map[string]any{
		"full_name_ru": "x",
		"church":       "Грейс",
	})
	assert.Contains(t, out, "full_name_ru")
	assert.NotContains(t, out, "church")
}
