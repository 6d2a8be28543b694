package repo

// Хелперы чтения значений из карты полей Airtable: JSON отдаёт any,
// числа — как float64, связи и lookup'ы — как []any.

func getString(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func getInt(fields map[string]any, name string) int {
	switch v := fields[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func getInt64(fields map[string]any, name string) int64 {
	switch v := fields[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func getStrings(fields map[string]any, name string) []string {
	raw, ok := fields[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Scorer — клиентская оценка похожести строк для fuzzy-поиска; Airtable
// не умеет нечёткий поиск на сервере. Реализация — service.SearchService.
type Scorer interface {
	Score(query, candidate string) float64
}
