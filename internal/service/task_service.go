package service

import (
	"context"
	"errors"
	"strings"

	"kanban-board/internal/domain"
	"kanban-board/internal/repository"
)

// ErrInvalidStatus is returned when moving a task to a status outside the
// known set. The upstream system accepted any value and later hid such
// tasks from the board; here the write is rejected instead.
var ErrInvalidStatus = errors.New("invalid task status")

// TaskService coordinates task level operations backed by the repository.
type TaskService interface {
	CreateTask(ctx context.Context, username, text string) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context, username string) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error
	DeleteTask(ctx context.Context, id int64) error
	Board(ctx context.Context, username string) (domain.Board, error)
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) CreateTask(ctx context.Context, username, text string) (*domain.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("task text is required")
	}

	// every task starts in the first column
	task := &domain.Task{
		Username: username,
		Text:     text,
		Status:   domain.TaskStatusToDo,
	}
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

func (s *taskService) ListTasks(ctx context.Context, username string) ([]domain.Task, error) {
	return s.tasks.ListByUsername(ctx, username)
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Board(ctx context.Context, username string) (domain.Board, error) {
	tasks, err := s.tasks.ListByUsername(ctx, username)
	if err != nil {
		return domain.Board{}, err
	}
	return domain.PartitionTasks(tasks), nil
}
