package stores

import (
	"context"

	"github.com/malwarebo/taskhub/models"
	"gorm.io/gorm"
)

type SubtaskStore struct {
	BaseStore
}

func CreateSubtaskStore(db *gorm.DB) *SubtaskStore {
	return &SubtaskStore{BaseStore: BaseStore{db: db}}
}

func (s *SubtaskStore) Create(ctx context.Context, subtask *models.Subtask) error {
	return s.GetDB(ctx).Create(subtask).Error
}

func (s *SubtaskStore) Update(ctx context.Context, subtask *models.Subtask) error {
	return s.GetDB(ctx).Save(subtask).Error
}

func (s *SubtaskStore) GetByID(ctx context.Context, id uint) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := s.GetDB(ctx).First(&subtask, id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (s *SubtaskStore) Count(ctx context.Context, todoID uint) (int64, error) {
	var count int64
	q := s.GetDB(ctx).Model(&models.Subtask{})
	if todoID != 0 {
		q = q.Where("todo_id = ?", todoID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SubtaskStore) List(ctx context.Context, todoID uint, offset, limit int) ([]*models.Subtask, error) {
	var subtasks []*models.Subtask
	q := s.GetDB(ctx).Model(&models.Subtask{})
	if todoID != 0 {
		q = q.Where("todo_id = ?", todoID)
	}
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&subtasks).Error
	if err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (s *SubtaskStore) Delete(ctx context.Context, id uint) error {
	return s.GetDB(ctx).Delete(&models.Subtask{}, id).Error
}
