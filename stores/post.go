package stores

import (
	"context"

	"github.com/malwarebo/taskhub/models"
	"gorm.io/gorm"
)

type BlogPostStore struct {
	BaseStore
}

func CreateBlogPostStore(db *gorm.DB) *BlogPostStore {
	return &BlogPostStore{BaseStore: BaseStore{db: db}}
}

func (s *BlogPostStore) Create(ctx context.Context, post *models.BlogPost) error {
	return s.GetDB(ctx).Create(post).Error
}

func (s *BlogPostStore) Update(ctx context.Context, post *models.BlogPost) error {
	return s.GetDB(ctx).Save(post).Error
}

func (s *BlogPostStore) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.GetDB(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *BlogPostStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.GetDB(ctx).Model(&models.BlogPost{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *BlogPostStore) List(ctx context.Context, offset, limit int) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := s.GetDB(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *BlogPostStore) Delete(ctx context.Context, id uint) error {
	return s.GetDB(ctx).Delete(&models.BlogPost{}, id).Error
}
