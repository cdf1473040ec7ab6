package stores

import (
	"context"

	"github.com/malwarebo/taskhub/models"
	"gorm.io/gorm"
)

type TagStore struct {
	BaseStore
}

func CreateTagStore(db *gorm.DB) *TagStore {
	return &TagStore{BaseStore: BaseStore{db: db}}
}

func (s *TagStore) Create(ctx context.Context, tag *models.Tag) error {
	return s.GetDB(ctx).Create(tag).Error
}

func (s *TagStore) Update(ctx context.Context, tag *models.Tag) error {
	return s.GetDB(ctx).Save(tag).Error
}

func (s *TagStore) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.GetDB(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagStore) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.GetDB(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagStore) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	q := s.GetDB(ctx).Model(&models.Tag{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *TagStore) List(ctx context.Context, userID uint, offset, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	q := s.GetDB(ctx).Model(&models.Tag{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagStore) Delete(ctx context.Context, id uint) error {
	return s.GetDB(ctx).Delete(&models.Tag{}, id).Error
}
