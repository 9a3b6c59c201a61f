package repository

import (
	"context"
	"fmt"

	"github.com/Tomlord1122/todoapp/internal/domain"

	"gorm.io/gorm"
)

// TodoRepository defines the interface for todo data operations.
// Every single-row operation is bound to an owner id, so a row that belongs
// to someone else behaves exactly like a missing row.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindForOwner(ctx context.Context, ownerID, id uint) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]domain.Todo, error)
	Save(ctx context.Context, todo *domain.Todo) error
	DeleteForOwner(ctx context.Context, ownerID, id uint) (int64, error)
	ToggleCompleted(ctx context.Context, ownerID, id uint) (int64, error)

	// ListAll and FindAny ignore ownership. Only admin paths call them,
	// after the authorization gate.
	ListAll(ctx context.Context) ([]domain.Todo, error)
	FindAny(ctx context.Context, id uint) (*domain.Todo, error)
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindForOwner returns gorm.ErrRecordNotFound (wrapped) when the row is
// missing or owned by someone else.
func (r *gormTodoRepository) FindForOwner(ctx context.Context, ownerID, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("id = ?", id).
		First(&todo).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find todo %d for owner %d: %w", id, ownerID, err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list todos for owner %d: %w", ownerID, err)
	}
	return todos, nil
}

func (r *gormTodoRepository) ListAll(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (r *gormTodoRepository) FindAny(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find todo %d: %w", id, err)
	}
	return &todo, nil
}

// Save writes the mutable columns of a todo already loaded through
// FindForOwner. The owner filter is applied again on write.
func (r *gormTodoRepository) Save(ctx context.Context, todo *domain.Todo) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("owner_id = ?", todo.OwnerID).
		Where("id = ?", todo.ID).
		Select("task", "description", "priority", "completed").
		Updates(map[string]interface{}{
			"task":        todo.Task,
			"description": todo.Description,
			"priority":    todo.Priority,
			"completed":   todo.Completed,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update todo %d: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update todo %d: %w", todo.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *gormTodoRepository) DeleteForOwner(ctx context.Context, ownerID, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("id = ?", id).
		Delete(&domain.Todo{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete todo %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormTodoRepository) ToggleCompleted(ctx context.Context, ownerID, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("owner_id = ?", ownerID).
		Where("id = ?", id).
		Update("completed", gorm.Expr("NOT completed"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to toggle todo %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
