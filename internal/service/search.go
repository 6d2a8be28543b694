package service

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SearchService — нормализованная похожесть строк для клиентского
// fuzzy-поиска. 1.0 — совпадение, 0.0 — ничего общего. Сравниваем и
// строки целиком, и запрос против отдельных слов кандидата, чтобы
// запрос «Иванов» находил «Иванов Иван Петрович».
type SearchService struct{}

func NewSearchService() *SearchService { return &SearchService{} }

func (s *SearchService) Score(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 1
	}
	best := similarity(q, c)
	for _, word := range strings.Fields(c) {
		if sim := similarity(q, word); sim > best {
			best = sim
		}
	}
	// подстрока — сильный сигнал независимо от разницы длин
	if strings.Contains(c, q) {
		if sub := float64(len([]rune(q))) / float64(len([]rune(c))); sub > best {
			best = sub
		}
		if best < 0.75 {
			best = 0.75
		}
	}
	return best
}

func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
