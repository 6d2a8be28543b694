package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteValue(t *testing.T) {
	assert.Equal(t, "'Иванов'", QuoteValue("Иванов"))
	// вложенные кавычки удваиваются
	assert.Equal(t, "'O''Brien'", QuoteValue("O'Brien"))
	// числа — без кавычек
	assert.Equal(t, "42", QuoteValue(42))
	assert.Equal(t, "123456789", QuoteValue(int64(123456789)))
}

func TestEquals(t *testing.T) {
	assert.Equal(t, "{FullNameRU} = 'Иванов'", Equals("{FullNameRU}", "Иванов"))
	assert.Equal(t, "{TelegramUserID} = 99", Equals("{TelegramUserID}", 99))
}

func TestAndOr(t *testing.T) {
	assert.Equal(t, "{A} = 1", And("{A} = 1"))
	assert.Equal(t, "AND({A} = 1, {B} = 2)", And("{A} = 1", "{B} = 2"))
	assert.Equal(t, "OR({A} = 1, {B} = 2)", Or("{A} = 1", "{B} = 2"))
}

func TestFindInArray(t *testing.T) {
	assert.Equal(t, "FIND('Иванов', ARRAYJOIN({Participants})) > 0", FindInArray("{Participants}", "Иванов"))
}
