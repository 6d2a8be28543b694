package models

type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleTeam      Role = "TEAM"
)

type Department string

const (
	DeptWorship      Department = "Worship"
	DeptKitchen      Department = "Kitchen"
	DeptDecoration   Department = "Decoration"
	DeptAdministration Department = "Administration"
	DeptMedia        Department = "Media"
)

// Participant — участник мероприятия. RecordID пустой, пока запись
// не сохранена в Airtable. Lookup-поля (Church, TableName) заполняет
// сам Airtable из связанных записей — на запись они не идут.
type Participant struct {
	RecordID      string
	FullNameRU    string
	FullNameEN    string
	Gender        string
	Size          string
	Church        string
	Role          Role
	Department    Department
	FloorNumber   int
	RoomNumber    string
	ContactInfo   string
	Notes         string
	TableGroupIDs []string // связанные записи столов (record IDs)
}
