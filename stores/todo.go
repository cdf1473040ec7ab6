package stores

import (
	"context"

	"github.com/malwarebo/taskhub/models"
	"gorm.io/gorm"
)

// TodoFilter narrows todo list queries. Zero values mean "no filter".
type TodoFilter struct {
	UserID   uint
	Status   string
	Priority string
}

type TodoStore struct {
	BaseStore
}

func CreateTodoStore(db *gorm.DB) *TodoStore {
	return &TodoStore{BaseStore: BaseStore{db: db}}
}

func (s *TodoStore) Create(ctx context.Context, todo *models.Todo) error {
	return s.GetDB(ctx).Create(todo).Error
}

func (s *TodoStore) Update(ctx context.Context, todo *models.Todo) error {
	return s.GetDB(ctx).Save(todo).Error
}

func (s *TodoStore) GetByID(ctx context.Context, id uint) (*models.Todo, error) {
	var todo models.Todo
	err := s.GetDB(ctx).
		Preload("Tags").
		Where("is_deleted = ?", false).
		First(&todo, id).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *TodoStore) query(ctx context.Context, filter TodoFilter) *gorm.DB {
	q := s.GetDB(ctx).Model(&models.Todo{}).Where("is_deleted = ?", false)
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	return q
}

func (s *TodoStore) Count(ctx context.Context, filter TodoFilter) (int64, error) {
	var count int64
	if err := s.query(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *TodoStore) List(ctx context.Context, filter TodoFilter, offset, limit int) ([]*models.Todo, error) {
	var todos []*models.Todo
	err := s.query(ctx, filter).
		Preload("Tags").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// ReplaceTags swaps the todo's tag set for the given one.
func (s *TodoStore) ReplaceTags(ctx context.Context, todo *models.Todo, tags []models.Tag) error {
	return s.GetDB(ctx).Model(todo).Association("Tags").Replace(tags)
}

// Delete soft-deletes the todo; the row stays for audit purposes.
func (s *TodoStore) Delete(ctx context.Context, id uint) error {
	return s.GetDB(ctx).
		Model(&models.Todo{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
