package airtable

import (
	"fmt"
	"strings"
)

// QuoteValue готовит значение для подстановки в формулу Airtable:
// строки берутся в одинарные кавычки с удвоением вложенных кавычек,
// числа идут без кавычек.
func QuoteValue(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", x)
	case bool:
		if x {
			return "TRUE()"
		}
		return "FALSE()"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", x), "'", "''") + "'"
	}
}

// Equals — формула равенства {Field} = value. field уже должен быть в
// синтаксисе {Display Name} (см. fieldmap.FormulaField).
func Equals(field string, value any) string {
	return fmt.Sprintf("%s = %s", field, QuoteValue(value))
}

// And собирает конъюнкцию; одиночное условие возвращается как есть.
func And(conds ...string) string {
	if len(conds) == 1 {
		return conds[0]
	}
	return "AND(" + strings.Join(conds, ", ") + ")"
}

func Or(conds ...string) string {
	if len(conds) == 1 {
		return conds[0]
	}
	return "OR(" + strings.Join(conds, ", ") + ")"
}

// FindInArray — проверка вхождения в связанное (массивное) поле:
// FIND('needle', ARRAYJOIN({Field})) > 0.
func FindInArray(field string, needle string) string {
	return fmt.Sprintf("FIND(%s, ARRAYJOIN(%s)) > 0", QuoteValue(needle), field)
}
