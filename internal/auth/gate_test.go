package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUserLookup struct {
	findByIDFunc func(ctx context.Context, id uint) (*domain.User, error)
}

func (m *mockUserLookup) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func usersWithRoles(roles map[uint]*string) *mockUserLookup {
	return &mockUserLookup{
		findByIDFunc: func(_ context.Context, id uint) (*domain.User, error) {
			role, ok := roles[id]
			if !ok {
				return nil, fmt.Errorf("failed to find user by id %d: %w", id, gorm.ErrRecordNotFound)
			}
			return &domain.User{ID: id, Role: role}, nil
		},
	}
}

func strPtr(s string) *string { return &s }

func TestCanAccessTodo(t *testing.T) {
	gate := NewGate(&mockUserLookup{})
	todo := &domain.Todo{ID: 10, OwnerID: 1}

	assert.True(t, gate.CanAccessTodo(&Identity{UserID: 1}, todo))
	assert.False(t, gate.CanAccessTodo(&Identity{UserID: 2}, todo))
	assert.False(t, gate.CanAccessTodo(nil, todo))
	assert.False(t, gate.CanAccessTodo(&Identity{UserID: 1}, nil))
}

func TestCanAccessAdmin(t *testing.T) {
	gate := NewGate(usersWithRoles(map[uint]*string{
		1: strPtr("admin"),
		2: strPtr("user"),
		3: nil,
		4: strPtr("ADMIN"),
	}))
	ctx := context.Background()

	tests := []struct {
		name     string
		identity *Identity
		want     bool
	}{
		{name: "admin", identity: &Identity{UserID: 1}, want: true},
		{name: "user role", identity: &Identity{UserID: 2}, want: false},
		{name: "role unset", identity: &Identity{UserID: 3}, want: false},
		{name: "case sensitive", identity: &Identity{UserID: 4}, want: false},
		{name: "missing row fails closed", identity: &Identity{UserID: 99}, want: false},
		{name: "anonymous", identity: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.CanAccessAdmin(ctx, tt.identity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanAccessAdmin_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	gate := NewGate(&mockUserLookup{
		findByIDFunc: func(context.Context, uint) (*domain.User, error) { return nil, boom },
	})

	ok, err := gate.CanAccessAdmin(context.Background(), &Identity{UserID: 1})
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestCanViewTodo(t *testing.T) {
	gate := NewGate(usersWithRoles(map[uint]*string{
		1: nil,
		2: nil,
		3: strPtr("admin"),
	}))
	ctx := context.Background()
	todo := &domain.Todo{ID: 5, OwnerID: 1}

	ok, err := gate.CanViewTodo(ctx, &Identity{UserID: 1}, todo)
	require.NoError(t, err)
	assert.True(t, ok, "owner")

	ok, err = gate.CanViewTodo(ctx, &Identity{UserID: 2}, todo)
	require.NoError(t, err)
	assert.False(t, ok, "other user")

	ok, err = gate.CanViewTodo(ctx, &Identity{UserID: 3}, todo)
	require.NoError(t, err)
	assert.True(t, ok, "admin")

	ok, err = gate.CanViewTodo(ctx, &Identity{UserID: 3}, nil)
	require.NoError(t, err)
	assert.False(t, ok, "missing todo")
}
