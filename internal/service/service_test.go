package service

import (
	"testing"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/repository"
	"github.com/Tomlord1122/todoapp/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users    repository.UserRepository
	todos    repository.TodoRepository
	userSvc  UserService
	todoSvc  TodoService
	adminSvc AdminService
	hasher   auth.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.AcquireDatabase(t).GetDB()
	users := repository.NewGormUserRepository(db)
	todos := repository.NewGormTodoRepository(db)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return &fixture{
		users:    users,
		todos:    todos,
		userSvc:  NewUserService(users, hasher),
		todoSvc:  NewTodoService(todos),
		adminSvc: NewAdminService(auth.NewGate(users), users, todos),
		hasher:   hasher,
	}
}
