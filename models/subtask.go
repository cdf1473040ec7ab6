package models

import (
	"time"
)

type Subtask struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TodoID      uint      `json:"todo_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	IsCompleted bool      `json:"is_completed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Subtask) TableName() string {
	return "subtask"
}

type CreateSubtaskRequest struct {
	TodoID uint   `json:"todo_id"`
	Title  string `json:"title"`
}

type UpdateSubtaskRequest struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"is_completed"`
}
