package fieldmap

import (
	"errors"
	"fmt"
)

// ErrUnknownField возвращают только строгие аксессоры: при (де)сериализации
// моделей неизвестное имя поля — это ошибка, а не повод молча пропустить.
var ErrUnknownField = errors.New("unknown field")

// Mapping — статическая таблица соответствий для одной таблицы Airtable:
// доменное имя поля ↔ отображаемое имя ↔ внутренний field ID, плюс
// option ID для single/multi-select полей. Собирается один раз при старте
// процесса и дальше не меняется.
type Mapping struct {
	fieldIDs        map[string]string            // display name -> field ID
	domainToDisplay map[string]string            // domain name -> display name
	displayToDomain map[string]string            // обратный индекс
	optionIDs       map[string]map[string]string // display name -> option value -> option ID
	writable        map[string]bool              // доменные имена, допустимые на запись
}

type Config struct {
	FieldIDs  map[string]string
	Fields    map[string]string // domain -> display
	OptionIDs map[string]map[string]string
	Writable  []string
}

func New(cfg Config) *Mapping {
	m := &Mapping{
		fieldIDs:        cfg.FieldIDs,
		domainToDisplay: cfg.Fields,
		displayToDomain: make(map[string]string, len(cfg.Fields)),
		optionIDs:       cfg.OptionIDs,
		writable:        make(map[string]bool, len(cfg.Writable)),
	}
	if m.fieldIDs == nil {
		m.fieldIDs = map[string]string{}
	}
	if m.optionIDs == nil {
		m.optionIDs = map[string]map[string]string{}
	}
	for domain, display := range cfg.Fields {
		m.displayToDomain[display] = domain
	}
	for _, f := range cfg.Writable {
		m.writable[f] = true
	}
	return m
}

// DisplayName — мягкий поиск: неизвестное имя не считается ошибкой.
func (m *Mapping) DisplayName(domain string) (string, bool) {
	d, ok := m.domainToDisplay[domain]
	return d, ok
}

// FieldID возвращает внутренний ID поля по отображаемому имени.
func (m *Mapping) FieldID(display string) (string, bool) {
	id, ok := m.fieldIDs[display]
	return id, ok
}

// DomainToAirtableField — строгий вариант DisplayName: используется при
// сериализации модели, где промах по имени означает рассинхрон таблиц.
func (m *Mapping) DomainToAirtableField(domain string) (string, error) {
	d, ok := m.domainToDisplay[domain]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, domain)
	}
	return d, nil
}

// AirtableToDomainField — строгое обратное преобразование.
func (m *Mapping) AirtableToDomainField(display string) (string, error) {
	d, ok := m.displayToDomain[display]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, display)
	}
	return d, nil
}

// TranslateFieldsToIDs подменяет отображаемые имена на field ID там, где
// соответствие известно; незнакомые ключи проходят как есть — так вызов
// может передавать и готовые ID, и нестандартные поля.
func (m *Mapping) TranslateFieldsToIDs(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		if id, ok := m.fieldIDs[name]; ok {
			out[id] = v
		} else {
			out[name] = v
		}
	}
	return out
}

// TranslateOptionToID переводит человекочитаемое значение select-поля в
// option ID. Неизвестные значения проходят без изменений. Для multi-select
// обрабатывает срезы поэлементно.
func (m *Mapping) TranslateOptionToID(display string, value any) any {
	opts, ok := m.optionIDs[display]
	if !ok {
		return value
	}
	switch v := value.(type) {
	case string:
		if id, ok := opts[v]; ok {
			return id
		}
		return v
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			if id, ok := opts[s]; ok {
				out[i] = id
			} else {
				out[i] = s
			}
		}
		return out
	default:
		return value
	}
}

// FormulaField оборачивает каноническое отображаемое имя в синтаксис
// ссылки на поле формулы Airtable: {Display Name}. Смешивание доменных и
// отображаемых имён в одной формуле — класс дефектов, ради которого эта
// функция существует: формулы собираются только через неё.
func (m *Mapping) FormulaField(domain string) (string, bool) {
	d, ok := m.domainToDisplay[domain]
	if !ok {
		return "", false
	}
	return "{" + d + "}", true
}

// IsWritable сообщает, идёт ли доменное поле на запись (lookup-поля и
// псевдополе record ID — нет).
func (m *Mapping) IsWritable(domain string) bool {
	return m.writable[domain]
}

// WritableFields отфильтровывает из доменной карты всё, что нельзя писать.
func (m *Mapping) WritableFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		if m.writable[name] {
			out[name] = v
		}
	}
	return out
}
