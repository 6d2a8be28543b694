package models

import "time"

type AccessStatus string

const (
	StatusPending  AccessStatus = "pending"
	StatusApproved AccessStatus = "approved"
	StatusDenied   AccessStatus = "denied"
)

type AccessLevel string

const (
	LevelViewer      AccessLevel = "viewer"
	LevelCoordinator AccessLevel = "coordinator"
	LevelAdmin       AccessLevel = "admin"
)

// UserAccessRequest — заявка пользователя на доступ к боту.
// ReviewedAt и ReviewedBy заполняются только вместе, при approve/deny.
type UserAccessRequest struct {
	RecordID         string
	TelegramUserID   int64
	TelegramUsername string
	Status           AccessStatus
	AccessLevel      AccessLevel
	RequestedAt      time.Time
	ReviewedAt       *time.Time
	ReviewedBy       string
}

func (r *UserAccessRequest) IsPending() bool {
	return r.Status == StatusPending
}

func (r *UserAccessRequest) IsApproved() bool {
	return r.Status == StatusApproved
}
