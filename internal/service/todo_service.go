package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/logutil"
	"github.com/Tomlord1122/todoapp/internal/repository"

	"gorm.io/gorm"
)

// TodoRequest holds the fields a caller may set on a todo. The same shape
// is used for create and for full replacement on update.
type TodoRequest struct {
	Task        string `json:"task" validate:"required,min=3"`
	Description string `json:"description"`
	Priority    int    `json:"priority" validate:"gt=0,max=5"`
	Completed   bool   `json:"completed"`
}

// TodoResponse is the representation of a Todo returned by the service.
type TodoResponse struct {
	ID          uint   `json:"id"`
	Task        string `json:"task"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
	OwnerID     uint   `json:"owner_id"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Task:        todo.Task,
		Description: todo.Description,
		Priority:    todo.Priority,
		Completed:   todo.Completed,
		OwnerID:     todo.OwnerID,
	}
}

func newTodoResponses(todos []domain.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, NewTodoResponse(todo))
	}
	return responses
}

// TodoService defines the operations a signed-in user runs on their own
// todos. Every call is bound to ownerID; a todo owned by someone else
// reports ErrTodoNotFound.
type TodoService interface {
	CreateTodo(ctx context.Context, ownerID uint, req TodoRequest) (*TodoResponse, error)
	GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error)
	ListTodos(ctx context.Context, ownerID uint) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, ownerID, id uint, req TodoRequest) error
	DeleteTodo(ctx context.Context, ownerID, id uint) error
	ToggleTodo(ctx context.Context, ownerID, id uint) error
}

type todoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) CreateTodo(ctx context.Context, ownerID uint, req TodoRequest) (*TodoResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Task:        req.Task,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Uint("owner_id", ownerID).Msg("Error creating todo")
		return nil, fmt.Errorf("create todo: %w", err)
	}

	resp := NewTodoResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error) {
	todo, err := s.repo.FindForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "get todo")
	}
	resp := NewTodoResponse(*todo)
	return &resp, nil
}

func (s *todoService) ListTodos(ctx context.Context, ownerID uint) ([]TodoResponse, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Uint("owner_id", ownerID).Msg("Error listing todos")
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return newTodoResponses(todos), nil
}

// UpdateTodo replaces every mutable field. Concurrent updates from the same
// owner are last-write-wins.
func (s *todoService) UpdateTodo(ctx context.Context, ownerID, id uint, req TodoRequest) error {
	if err := Validate(req); err != nil {
		return err
	}

	todo, err := s.repo.FindForOwner(ctx, ownerID, id)
	if err != nil {
		return notFoundOr(err, "update todo")
	}
	todo.Task = req.Task
	todo.Description = req.Description
	todo.Priority = req.Priority
	todo.Completed = req.Completed

	if err := s.repo.Save(ctx, todo); err != nil {
		return notFoundOr(err, "update todo")
	}
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, ownerID, id uint) error {
	n, err := s.repo.DeleteForOwner(ctx, ownerID, id)
	if err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Uint("todo_id", id).Msg("Error deleting todo")
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (s *todoService) ToggleTodo(ctx context.Context, ownerID, id uint) error {
	n, err := s.repo.ToggleCompleted(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTodoNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
