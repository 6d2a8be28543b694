package airtable

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError — единственный вид ошибки, который отдаёт клиент: операция,
// HTTP-статус (0, если до ответа не дошло) и исходная причина.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("airtable: %s: http %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("airtable: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) IsNotFound() bool   { return classify(e) == http.StatusNotFound }
func (e *APIError) IsValidation() bool { return classify(e) == http.StatusUnprocessableEntity }

// classify определяет класс ошибки. Предпочитаем структурный статус от
// транспорта; текстовая эвристика ("not found"/"404") остаётся запасным
// путём для ошибок, дошедших без кода, и изолирована здесь, чтобы при
// смене транспорта менять одно место.
func classify(e *APIError) int {
	if e.Status != 0 {
		return e.Status
	}
	s := strings.ToLower(e.Err.Error())
	switch {
	case strings.Contains(s, "not_found") || strings.Contains(s, "not found") || strings.Contains(s, "404"):
		return http.StatusNotFound
	case strings.Contains(s, "422") || strings.Contains(s, "invalid"):
		return http.StatusUnprocessableEntity
	default:
		return 0
	}
}

func wrap(op string, status int, err error) *APIError {
	return &APIError{Op: op, Status: status, Err: err}
}
