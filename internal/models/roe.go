package models

// ROE — сессия ROE (беседа). У сессии должен быть хотя бы один
// докладчик: основной или ассистент.
type ROE struct {
	RecordID            string
	Topic               string
	When                string
	Duration            int
	PresenterIDs        []string // основной докладчик (связь)
	AssistantIDs        []string // ассистент (связь)
	PresenterNames      []string // lookup
	AssistantNames      []string // lookup
	PresenterChurches   []string // lookup
}

// HasPresenter — валидна ли сессия с точки зрения докладчиков.
func (r *ROE) HasPresenter() bool {
	return len(r.PresenterIDs) > 0 || len(r.AssistantIDs) > 0
}
