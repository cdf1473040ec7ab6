package services

import (
	"context"
	"unicode/utf8"

	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/stores"
	"github.com/malwarebo/taskhub/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type BlogPostService struct {
	store        *stores.BlogPostStore
	defaultOwner uint
}

func CreateBlogPostService(store *stores.BlogPostStore, defaultOwner uint) *BlogPostService {
	return &BlogPostService{store: store, defaultOwner: defaultOwner}
}

func (s *BlogPostService) Create(ctx context.Context, userID uint, req *models.CreateBlogPostRequest) (*models.BlogPost, error) {
	if fieldErrs := validatePostTitle(req.Title); fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	if userID == 0 {
		userID = s.defaultOwner
	}

	post := &models.BlogPost{
		OwnerID:   userID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, errors.Wrap(err, "create blog post")
	}
	return post, nil
}

func (s *BlogPostService) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPostNotFound
		}
		return nil, errors.Wrap(err, "get blog post")
	}
	return post, nil
}

func (s *BlogPostService) List(ctx context.Context, offset, limit int) ([]*models.BlogPost, int64, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count blog posts")
	}

	posts, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list blog posts")
	}
	return posts, total, nil
}

func (s *BlogPostService) Update(ctx context.Context, id uint, req *models.UpdateBlogPostRequest) (*models.BlogPost, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if fieldErrs := validatePostTitle(*req.Title); fieldErrs.HasErrors() {
			return nil, fieldErrs
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.store.Update(ctx, post); err != nil {
		return nil, errors.Wrap(err, "update blog post")
	}
	return post, nil
}

func (s *BlogPostService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete blog post")
	}
	return nil
}

func validatePostTitle(title string) utils.FieldErrors {
	fieldErrs := utils.FieldErrors{}
	if title == "" {
		fieldErrs.Add("title", "This field cannot be blank")
	}
	if utf8.RuneCountInString(title) > 255 {
		fieldErrs.Add("title", "Ensure this value has at most 255 characters")
	}
	return fieldErrs
}
