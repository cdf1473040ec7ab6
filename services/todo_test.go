package services

import (
	"strings"
	"testing"
	"time"

	"github.com/malwarebo/taskhub/models"
)

func TestValidateTodoCreate(t *testing.T) {
	t.Run("Unknown priority is rejected", func(t *testing.T) {
		req := &models.CreateTodoRequest{Title: "Buy milk", Priority: "X"}
		if errs := validateTodoCreate(req); len(errs["priority"]) == 0 {
			t.Error("expected a priority validation error")
		}
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		req := &models.CreateTodoRequest{Title: "Buy milk", Status: "Z"}
		if errs := validateTodoCreate(req); len(errs["status"]) == 0 {
			t.Error("expected a status validation error")
		}
	})

	t.Run("Blank title is rejected", func(t *testing.T) {
		req := &models.CreateTodoRequest{}
		if errs := validateTodoCreate(req); len(errs["title"]) == 0 {
			t.Error("expected a title validation error")
		}
	})

	t.Run("Overlong title is rejected", func(t *testing.T) {
		req := &models.CreateTodoRequest{Title: strings.Repeat("x", 256)}
		if errs := validateTodoCreate(req); len(errs["title"]) == 0 {
			t.Error("expected a title validation error")
		}
	})

	t.Run("Valid request passes", func(t *testing.T) {
		req := &models.CreateTodoRequest{Title: "Buy milk", Priority: models.PriorityHigh, Status: models.StatusPending}
		if errs := validateTodoCreate(req); errs.HasErrors() {
			t.Errorf("unexpected validation errors: %v", errs)
		}
	})
}

func TestValidateTodoUpdate(t *testing.T) {
	blank := ""
	badPriority := "9"

	t.Run("Blank title is rejected", func(t *testing.T) {
		req := &models.UpdateTodoRequest{Title: &blank}
		if errs := validateTodoUpdate(req); len(errs["title"]) == 0 {
			t.Error("expected a title validation error")
		}
	})

	t.Run("Unknown priority is rejected", func(t *testing.T) {
		req := &models.UpdateTodoRequest{Priority: &badPriority}
		if errs := validateTodoUpdate(req); len(errs["priority"]) == 0 {
			t.Error("expected a priority validation error")
		}
	})

	t.Run("Empty update passes", func(t *testing.T) {
		if errs := validateTodoUpdate(&models.UpdateTodoRequest{}); errs.HasErrors() {
			t.Errorf("unexpected validation errors: %v", errs)
		}
	})
}

func TestTodoMarkComplete(t *testing.T) {
	todo := &models.Todo{Status: models.StatusPending}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	todo.MarkComplete(now)

	if todo.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", todo.Status, models.StatusCompleted)
	}
	if todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v, want %v", todo.CompletedAt, now)
	}
}
