package domain

import "time"

type TaskStatus string

const (
	TaskStatusToDo  TaskStatus = "to_do"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// Valid reports whether s is one of the three recognized statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// Task is a single card on a user's board.
type Task struct {
	ID        int64
	Username  string
	Text      string
	Status    TaskStatus
	CreatedAt time.Time
}
