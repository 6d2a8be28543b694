package models

// BibleReader — назначение участника на чтение отрывка Писания.
// ParticipantIDs — связь на участников, When/Where — время и место.
// ParticipantNames — lookup из связанных записей, только чтение.
type BibleReader struct {
	RecordID         string
	Passage          string
	When             string
	Where            string
	ParticipantIDs   []string
	ParticipantNames []string
	ChurchNames      []string
	RoomNumbers      []string
}
