package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/stores"
	"github.com/malwarebo/taskhub/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TodoService struct {
	store        *stores.TodoStore
	tags         *stores.TagStore
	email        *EmailService
	defaultOwner uint
	logger       *utils.Logger
}

// CreateTodoService wires the todo business rules. defaultOwner is the
// configured fallback owner applied when a request carries no
// authenticated user.
func CreateTodoService(store *stores.TodoStore, tags *stores.TagStore, email *EmailService, defaultOwner uint) *TodoService {
	return &TodoService{
		store:        store,
		tags:         tags,
		email:        email,
		defaultOwner: defaultOwner,
		logger:       utils.NewLogger("todo"),
	}
}

func (s *TodoService) ownerFor(userID uint) uint {
	if userID != 0 {
		return userID
	}
	return s.defaultOwner
}

func (s *TodoService) Create(ctx context.Context, userID uint, req *models.CreateTodoRequest) (*models.Todo, error) {
	if fieldErrs := validateTodoCreate(req); fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	todo := &models.Todo{
		UserID:      s.ownerFor(userID),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	if todo.Status == "" {
		todo.Status = models.StatusPending
	}

	err := s.store.WithTransaction(ctx, func(txCtx context.Context) error {
		tags, err := s.resolveTags(txCtx, req.TagIDs)
		if err != nil {
			return err
		}
		todo.Tags = tags
		return s.store.Create(txCtx, todo)
	})
	if err != nil {
		if _, ok := err.(utils.FieldErrors); ok {
			return nil, err
		}
		return nil, errors.Wrap(err, "create todo")
	}

	return todo, nil
}

func (s *TodoService) GetByID(ctx context.Context, id uint) (*models.Todo, error) {
	todo, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTodoNotFound
		}
		return nil, errors.Wrap(err, "get todo")
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, filter stores.TodoFilter, offset, limit int) ([]*models.Todo, int64, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count todos")
	}

	todos, err := s.store.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list todos")
	}
	return todos, total, nil
}

func (s *TodoService) Update(ctx context.Context, id uint, req *models.UpdateTodoRequest) (*models.Todo, error) {
	todo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrs := validateTodoUpdate(req); fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	completed := false
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.Status != nil {
		if *req.Status == models.StatusCompleted && todo.Status != models.StatusCompleted {
			todo.MarkComplete(time.Now().UTC())
			completed = true
		} else {
			todo.Status = *req.Status
		}
	}

	err = s.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if req.TagIDs != nil {
			tags, err := s.resolveTags(txCtx, *req.TagIDs)
			if err != nil {
				return err
			}
			if err := s.store.ReplaceTags(txCtx, todo, tags); err != nil {
				return err
			}
			todo.Tags = tags
		}
		return s.store.Update(txCtx, todo)
	})
	if err != nil {
		if _, ok := err.(utils.FieldErrors); ok {
			return nil, err
		}
		return nil, errors.Wrap(err, "update todo")
	}

	if completed {
		s.notifyCompleted(ctx, todo)
	}

	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete todo")
	}
	return nil
}

func (s *TodoService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tags, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		fieldErrs := utils.FieldErrors{}
		fieldErrs.Add("tag_ids", "Select a valid choice. That choice is not one of the available choices.")
		return nil, fieldErrs
	}
	return tags, nil
}

func (s *TodoService) notifyCompleted(ctx context.Context, todo *models.Todo) {
	if s.email == nil {
		return
	}

	subject := fmt.Sprintf("Todo completed: %s", todo.Title)
	body := fmt.Sprintf("The todo %q was marked completed at %s.", todo.Title, todo.CompletedAt.Format(time.RFC3339))
	if err := s.email.Send(ctx, subject, body, nil); err != nil {
		s.logger.Error(ctx, "completion notification failed", map[string]interface{}{
			"todo_id": todo.ID,
			"error":   err.Error(),
		})
	}
}

func validateTodoCreate(req *models.CreateTodoRequest) utils.FieldErrors {
	fieldErrs := utils.FieldErrors{}

	if req.Title == "" {
		fieldErrs.Add("title", "This field cannot be blank")
	}
	if utf8.RuneCountInString(req.Title) > 255 {
		fieldErrs.Add("title", "Ensure this value has at most 255 characters")
	}
	if req.Priority != "" {
		if _, ok := models.TodoPriorityChoices[req.Priority]; !ok {
			fieldErrs.Add("priority", choiceMessage(models.TodoPriorityChoices))
		}
	}
	if req.Status != "" {
		if _, ok := models.TodoStatusChoices[req.Status]; !ok {
			fieldErrs.Add("status", choiceMessage(models.TodoStatusChoices))
		}
	}

	return fieldErrs
}

func validateTodoUpdate(req *models.UpdateTodoRequest) utils.FieldErrors {
	fieldErrs := utils.FieldErrors{}

	if req.Title != nil {
		if *req.Title == "" {
			fieldErrs.Add("title", "This field cannot be blank")
		}
		if utf8.RuneCountInString(*req.Title) > 255 {
			fieldErrs.Add("title", "Ensure this value has at most 255 characters")
		}
	}
	if req.Priority != nil {
		if _, ok := models.TodoPriorityChoices[*req.Priority]; !ok {
			fieldErrs.Add("priority", choiceMessage(models.TodoPriorityChoices))
		}
	}
	if req.Status != nil {
		if _, ok := models.TodoStatusChoices[*req.Status]; !ok {
			fieldErrs.Add("status", choiceMessage(models.TodoStatusChoices))
		}
	}

	return fieldErrs
}

func choiceMessage(choices map[string]string) string {
	return "Select a valid choice. That choice is not one of the available choices."
}
