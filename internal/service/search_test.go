package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreExactAndEmpty(t *testing.T) {
	s := NewSearchService()

	assert.Equal(t, 1.0, s.Score("Иванов Иван", "Иванов Иван"))
	// регистр и внешние пробелы не влияют
	assert.Equal(t, 1.0, s.Score("  иванов иван ", "Иванов Иван"))
	assert.Equal(t, 0.0, s.Score("", "Иванов Иван"))
	assert.Equal(t, 0.0, s.Score("Иванов", ""))
}

func TestScoreWordMatch(t *testing.T) {
	s := NewSearchService()

	// запрос из одного слова находит его в полном имени
	score := s.Score("Иванов", "Иванов Иван Петрович")
	assert.GreaterOrEqual(t, score, 0.75)

	// опечатка в одну букву остаётся выше разумного порога
	score = s.Score("Иваной", "Иванов")
	assert.Greater(t, score, 0.8)
}

func TestScoreOrdersByCloseness(t *testing.T) {
	s := NewSearchService()

	near := s.Score("Иванов", "Иванов Иван")
	far := s.Score("Иванов", "Кузнецова Мария")
	assert.Greater(t, near, far)
	assert.Less(t, far, 0.5)
}

func TestScoreSubstringBoost(t *testing.T) {
	s := NewSearchService()

	// подстрока внутри слова тоже даёт сильный сигнал
	assert.GreaterOrEqual(t, s.Score("ван", "Иванов"), 0.75)
}
