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

type SubtaskService struct {
	store *stores.SubtaskStore
	todos *stores.TodoStore
}

func CreateSubtaskService(store *stores.SubtaskStore, todos *stores.TodoStore) *SubtaskService {
	return &SubtaskService{store: store, todos: todos}
}

func (s *SubtaskService) Create(ctx context.Context, req *models.CreateSubtaskRequest) (*models.Subtask, error) {
	fieldErrs := utils.FieldErrors{}
	if req.Title == "" {
		fieldErrs.Add("title", "This field cannot be blank")
	}
	if utf8.RuneCountInString(req.Title) > 255 {
		fieldErrs.Add("title", "Ensure this value has at most 255 characters")
	}
	if req.TodoID == 0 {
		fieldErrs.Add("todo_id", "This field cannot be null")
	}
	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	// The parent todo must exist and be visible.
	if _, err := s.todos.GetByID(ctx, req.TodoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs.Add("todo_id", "Object does not exist")
			return nil, fieldErrs
		}
		return nil, errors.Wrap(err, "resolve parent todo")
	}

	subtask := &models.Subtask{
		TodoID: req.TodoID,
		Title:  req.Title,
	}
	if err := s.store.Create(ctx, subtask); err != nil {
		return nil, errors.Wrap(err, "create subtask")
	}
	return subtask, nil
}

func (s *SubtaskService) GetByID(ctx context.Context, id uint) (*models.Subtask, error) {
	subtask, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSubtaskNotFound
		}
		return nil, errors.Wrap(err, "get subtask")
	}
	return subtask, nil
}

func (s *SubtaskService) List(ctx context.Context, todoID uint, offset, limit int) ([]*models.Subtask, int64, error) {
	total, err := s.store.Count(ctx, todoID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count subtasks")
	}

	subtasks, err := s.store.List(ctx, todoID, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list subtasks")
	}
	return subtasks, total, nil
}

func (s *SubtaskService) Update(ctx context.Context, id uint, req *models.UpdateSubtaskRequest) (*models.Subtask, error) {
	subtask, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		fieldErrs := utils.FieldErrors{}
		if *req.Title == "" {
			fieldErrs.Add("title", "This field cannot be blank")
		}
		if utf8.RuneCountInString(*req.Title) > 255 {
			fieldErrs.Add("title", "Ensure this value has at most 255 characters")
		}
		if fieldErrs.HasErrors() {
			return nil, fieldErrs
		}
		subtask.Title = *req.Title
	}
	if req.IsCompleted != nil {
		subtask.IsCompleted = *req.IsCompleted
	}

	if err := s.store.Update(ctx, subtask); err != nil {
		return nil, errors.Wrap(err, "update subtask")
	}
	return subtask, nil
}

func (s *SubtaskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete subtask")
	}
	return nil
}
