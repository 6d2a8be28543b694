package service

import (
	"context"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"go.uber.org/zap"
)

// AccessRequestStore — то, что сервису нужно от репозитория заявок.
type AccessRequestStore interface {
	Create(ctx context.Context, req *models.UserAccessRequest) (*models.UserAccessRequest, error)
	GetByTelegramID(ctx context.Context, userID int64) (*models.UserAccessRequest, error)
	Update(ctx context.Context, req *models.UserAccessRequest) (*models.UserAccessRequest, error)
	ListByStatus(ctx context.Context, status models.AccessStatus, offset string) ([]models.UserAccessRequest, string, error)
}

// AccessService управляет жизненным циклом заявки на доступ:
// pending → approved/denied, с возможностью повторного пересмотра в
// любую сторону — терминального состояния нет. Каждый переход сразу
// сохраняется через репозиторий, состояния в памяти не держим.
type AccessService struct {
	store AccessRequestStore
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewAccessService(store AccessRequestStore, log *zap.SugaredLogger) *AccessService {
	return &AccessService{store: store, log: log, now: time.Now}
}

// SubmitRequest идемпотентна: повторная подача от того же пользователя
// возвращает существующую заявку без второй записи.
func (s *AccessService) SubmitRequest(ctx context.Context, userID int64, username string) (*models.UserAccessRequest, error) {
	existing, err := s.store.GetByTelegramID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	req := &models.UserAccessRequest{
		TelegramUserID:   userID,
		TelegramUsername: username,
		Status:           models.StatusPending,
		AccessLevel:      models.LevelViewer,
		RequestedAt:      s.now(),
	}
	created, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.log != nil {
		s.log.Infow("access request submitted", "user_id", userID, "username", username)
	}
	return created, nil
}

// ApproveRequest допустим из любого предыдущего статуса (повторное
// одобрение после отказа — штатный сценарий).
func (s *AccessService) ApproveRequest(ctx context.Context, req *models.UserAccessRequest, level models.AccessLevel, reviewedBy string) (*models.UserAccessRequest, error) {
	now := s.now()
	req.Status = models.StatusApproved
	req.AccessLevel = level
	req.ReviewedAt = &now
	req.ReviewedBy = reviewedBy
	updated, err := s.store.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.log != nil {
		s.log.Infow("access request approved", "user_id", req.TelegramUserID, "level", level, "by", reviewedBy)
	}
	return updated, nil
}

// DenyRequest ставит denied и метки ревью. AccessLevel сознательно не
// трогаем: ранее выданный уровень остаётся в записи и вернётся при
// повторном одобрении без явного указания уровня.
func (s *AccessService) DenyRequest(ctx context.Context, req *models.UserAccessRequest, reviewedBy string) (*models.UserAccessRequest, error) {
	now := s.now()
	req.Status = models.StatusDenied
	req.ReviewedAt = &now
	req.ReviewedBy = reviewedBy
	updated, err := s.store.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.log != nil {
		s.log.Infow("access request denied", "user_id", req.TelegramUserID, "by", reviewedBy)
	}
	return updated, nil
}

// CheckUserAccess: доступ есть только у approved-заявки.
func (s *AccessService) CheckUserAccess(req *models.UserAccessRequest) bool {
	return req != nil && req.Status == models.StatusApproved
}

// GetAccessLevel возвращает уровень только для approved-заявки; для
// остальных nil — записанный в denied-заявке уровень не действует.
func (s *AccessService) GetAccessLevel(req *models.UserAccessRequest) *models.AccessLevel {
	if !s.CheckUserAccess(req) {
		return nil
	}
	level := req.AccessLevel
	return &level
}

// FindRequest — заявка пользователя, nil если её нет.
func (s *AccessService) FindRequest(ctx context.Context, userID int64) (*models.UserAccessRequest, error) {
	return s.store.GetByTelegramID(ctx, userID)
}

// ListPending — страница ожидающих заявок плюс offset продолжения.
func (s *AccessService) ListPending(ctx context.Context, offset string) ([]models.UserAccessRequest, string, error) {
	return s.store.ListByStatus(ctx, models.StatusPending, offset)
}
