package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/stores"
	"github.com/malwarebo/taskhub/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TagService struct {
	store        *stores.TagStore
	defaultOwner uint
}

func CreateTagService(store *stores.TagStore, defaultOwner uint) *TagService {
	return &TagService{store: store, defaultOwner: defaultOwner}
}

func (s *TagService) Create(ctx context.Context, userID uint, req *models.CreateTagRequest) (*models.Tag, error) {
	name, fieldErrs := normalizeTagName(req.Name)
	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	if userID == 0 {
		userID = s.defaultOwner
	}

	tag := &models.Tag{UserID: userID, Name: name}
	if err := s.store.Create(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			dupErrs := utils.FieldErrors{}
			dupErrs.Add("name", "A tag with this name already exists")
			return nil, dupErrs
		}
		return nil, errors.Wrap(err, "create tag")
	}
	return tag, nil
}

func (s *TagService) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTagNotFound
		}
		return nil, errors.Wrap(err, "get tag")
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context, userID uint, offset, limit int) ([]*models.Tag, int64, error) {
	total, err := s.store.Count(ctx, userID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count tags")
	}

	tags, err := s.store.List(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list tags")
	}
	return tags, total, nil
}

func (s *TagService) Update(ctx context.Context, id uint, req *models.UpdateTagRequest) (*models.Tag, error) {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, fieldErrs := normalizeTagName(*req.Name)
		if fieldErrs.HasErrors() {
			return nil, fieldErrs
		}
		tag.Name = name
	}

	if err := s.store.Update(ctx, tag); err != nil {
		return nil, errors.Wrap(err, "update tag")
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete tag")
	}
	return nil
}

// normalizeTagName trims and lowercases the name and applies the tag
// naming rules.
func normalizeTagName(raw string) (string, utils.FieldErrors) {
	fieldErrs := utils.FieldErrors{}

	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		fieldErrs.Add("name", "This field cannot be blank")
	}
	// Rune count, not byte length, so multibyte names get the full 50.
	if utf8.RuneCountInString(name) > 50 {
		fieldErrs.Add("name", "Ensure this value has at most 50 characters")
	}

	return name, fieldErrs
}
