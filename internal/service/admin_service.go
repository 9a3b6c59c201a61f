package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/repository"

	"gorm.io/gorm"
)

// AdminService serves the read-only admin views. Every method runs the
// admin check first and returns ErrForbidden when it fails.
type AdminService interface {
	ListUsers(ctx context.Context, identity *auth.Identity) ([]UserResponse, error)
	ListTodos(ctx context.Context, identity *auth.Identity) ([]TodoResponse, error)
	ListTodosForUser(ctx context.Context, identity *auth.Identity, userID uint) ([]TodoResponse, error)
	// GetTodo is open to the todo's owner as well as to admins. Anyone
	// else gets ErrTodoNotFound.
	GetTodo(ctx context.Context, identity *auth.Identity, todoID uint) (*TodoResponse, error)
}

type adminService struct {
	gate  *auth.Gate
	users repository.UserRepository
	todos repository.TodoRepository
}

func NewAdminService(gate *auth.Gate, users repository.UserRepository, todos repository.TodoRepository) AdminService {
	return &adminService{gate: gate, users: users, todos: todos}
}

func (s *adminService) requireAdmin(ctx context.Context, identity *auth.Identity) error {
	ok, err := s.gate.CanAccessAdmin(ctx, identity)
	if err != nil {
		return fmt.Errorf("admin check: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, identity *auth.Identity) ([]UserResponse, error) {
	if err := s.requireAdmin(ctx, identity); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out, nil
}

func (s *adminService) ListTodos(ctx context.Context, identity *auth.Identity) ([]TodoResponse, error) {
	if err := s.requireAdmin(ctx, identity); err != nil {
		return nil, err
	}
	todos, err := s.todos.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all todos: %w", err)
	}
	return newTodoResponses(todos), nil
}

func (s *adminService) ListTodosForUser(ctx context.Context, identity *auth.Identity, userID uint) ([]TodoResponse, error) {
	if err := s.requireAdmin(ctx, identity); err != nil {
		return nil, err
	}
	todos, err := s.todos.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos for user %d: %w", userID, err)
	}
	return newTodoResponses(todos), nil
}

func (s *adminService) GetTodo(ctx context.Context, identity *auth.Identity, todoID uint) (*TodoResponse, error) {
	todo, err := s.todos.FindAny(ctx, todoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	ok, err := s.gate.CanViewTodo(ctx, identity, todo)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if !ok {
		return nil, ErrTodoNotFound
	}
	resp := NewTodoResponse(*todo)
	return &resp, nil
}
