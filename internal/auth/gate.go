package auth

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todoapp/internal/domain"
	"gorm.io/gorm"
)

// UserLookup is the slice of the user store the gate needs.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// Gate decides whether an identity may see or change a resource.
type Gate struct {
	users UserLookup
}

func NewGate(users UserLookup) *Gate {
	return &Gate{users: users}
}

// CanAccessTodo is true iff the identity owns the todo.
func (g *Gate) CanAccessTodo(identity *Identity, todo *domain.Todo) bool {
	if identity == nil || todo == nil {
		return false
	}
	return todo.OwnerID == identity.UserID
}

// CanAccessAdmin loads the caller's user row and requires role "admin".
// A missing row denies.
func (g *Gate) CanAccessAdmin(ctx context.Context, identity *Identity) (bool, error) {
	if identity == nil {
		return false, nil
	}
	user, err := g.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// CanViewTodo allows the owner and, on admin-scoped reads, an admin.
func (g *Gate) CanViewTodo(ctx context.Context, identity *Identity, todo *domain.Todo) (bool, error) {
	if g.CanAccessTodo(identity, todo) {
		return true, nil
	}
	if todo == nil {
		return false, nil
	}
	return g.CanAccessAdmin(ctx, identity)
}
