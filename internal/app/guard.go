package app

import (
	"context"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/Spok95/telegram-event-bot/internal/service"
)

// Authz — итог проверки доступа. Явный guard перед защищёнными
// операциями: вызывающий смотрит Allowed сам, никакого неявного
// перехвата вызовов.
type Authz struct {
	Allowed bool
	Level   models.AccessLevel
	Request *models.UserAccessRequest
}

func Authorize(ctx context.Context, access *service.AccessService, userID int64) (Authz, error) {
	req, err := access.FindRequest(ctx, userID)
	if err != nil {
		return Authz{}, err
	}
	if !access.CheckUserAccess(req) {
		return Authz{Request: req}, nil
	}
	level := models.LevelViewer
	if l := access.GetAccessLevel(req); l != nil {
		level = *l
	}
	return Authz{Allowed: true, Level: level, Request: req}, nil
}

var levelRank = map[models.AccessLevel]int{
	models.LevelViewer:      1,
	models.LevelCoordinator: 2,
	models.LevelAdmin:       3,
}

// HasLevel — достаточно ли уровня level для операции, требующей min.
func (a Authz) HasLevel(min models.AccessLevel) bool {
	return a.Allowed && levelRank[a.Level] >= levelRank[min]
}
