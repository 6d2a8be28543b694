package repo

import (
	"errors"
	"fmt"
)

// ErrNotFound: Get/Delete глотают его (nil/false), Update — отдаёт.
var ErrNotFound = errors.New("record not found")

// ValidationError — данные вызова нарушают доменный инвариант. Проверка
// идёт до любого внешнего вызова, где это возможно.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateError — коллизия по естественному ключу, найденная
// pre-flight-чтением. Это не серверный constraint: при конкурентной
// записи дубликат всё же возможен, и это принятое ограничение.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate: %s = %q already exists", e.Field, e.Value)
}
