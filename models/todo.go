package models

import (
	"time"
)

const (
	PriorityLow    = "L"
	PriorityMedium = "M"
	PriorityHigh   = "H"
	PriorityUrgent = "U"
)

const (
	StatusPending   = "P"
	StatusCompleted = "C"
	StatusArchived  = "A"
)

// TodoPriorityChoices enumerates the allowed priority values and their labels.
var TodoPriorityChoices = map[string]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// TodoStatusChoices enumerates the allowed status values and their labels.
var TodoStatusChoices = map[string]string{
	StatusPending:   "Pending",
	StatusCompleted: "Completed",
	StatusArchived:  "Archived",
}

type Todo struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"size:255;not null;index"`
	Description string     `json:"description" gorm:"type:text;default:''"`
	DueDate     *time.Time `json:"due_date" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at" gorm:"index"`
	Priority    string     `json:"priority" gorm:"size:1;index;default:'M'"`
	Status      string     `json:"status" gorm:"size:1;index;default:'P'"`
	Tags        []Tag      `json:"tags" gorm:"many2many:todo_tags"`
	IsDeleted   bool       `json:"is_deleted" gorm:"index;default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Todo) TableName() string {
	return "todo"
}

// MarkComplete flips the todo to completed and stamps the completion time.
func (t *Todo) MarkComplete(now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// SoftDelete hides the todo from all reads without removing the row.
func (t *Todo) SoftDelete() {
	t.IsDeleted = true
}

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	TagIDs      []uint     `json:"tag_ids"`
}

type UpdateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	TagIDs      *[]uint    `json:"tag_ids"`
}
