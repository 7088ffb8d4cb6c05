package services

import (
	"context"
	"time"

	"task-manager/tasks-service/models"

	"github.com/google/uuid"
)

type StatusStore interface {
	Insert(ctx context.Context, check *models.StatusCheck) error
	List(ctx context.Context, limit int64) ([]models.StatusCheck, error)
}

type StatusService struct {
	store StatusStore
	now   func() time.Time
	newID func() string
}

func NewStatusService(store StatusStore) *StatusService {
	return &StatusService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *StatusService) CreateStatusCheck(ctx context.Context, input models.StatusCheckCreate) (*models.StatusCheck, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	check := &models.StatusCheck{
		ID:         s.newID(),
		ClientName: input.ClientName,
		Timestamp:  s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.Insert(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *StatusService) ListStatusChecks(ctx context.Context) ([]models.StatusCheck, error) {
	return s.store.List(ctx, MaxListResults)
}
