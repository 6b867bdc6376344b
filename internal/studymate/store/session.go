package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

type sessions struct {
	db *gorm.DB
}

func newSessions(db *gorm.DB) *sessions {
	return &sessions{db}
}

// Create creates a new session.
func (s *sessions) Create(ctx context.Context, session *model.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *sessions) Get(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSessionNotFound.WithCause(err)
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &session, nil
}

// List lists a user's sessions, newest first.
func (s *sessions) List(ctx context.Context, userID string, offset, limit int) (int64, []*model.Session, error) {
	var count int64
	var list []*model.Session

	q := s.db.WithContext(ctx).Model(&model.Session{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}
	return count, list, nil
}

// UpdateStatus transitions a session's status.
func (s *sessions) UpdateStatus(ctx context.Context, id, status string) error {
	result := s.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row. Deleting an absent session is not an
// error so the cascade stays idempotent.
func (s *sessions) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// ListByStatus returns all sessions in the given status.
func (s *sessions) ListByStatus(ctx context.Context, status string) ([]*model.Session, error) {
	var list []*model.Session
	if err := s.db.WithContext(ctx).Where("status = ?", status).Find(&list).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}
