package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/logutil"
	"github.com/Tomlord1122/todoapp/internal/repository"

	"gorm.io/gorm"
)

// UserRequest is the JSON body of the create_user endpoint.
type UserRequest struct {
	Email     string  `json:"email" validate:"required,min=5,max=50"`
	Password  string  `json:"password" validate:"required,min=5,max=20"`
	FirstName string  `json:"first_name" validate:"required,min=5,max=20"`
	LastName  string  `json:"last_name"`
	Role      *string `json:"role"`
}

// RegistrationForm is what the browser register page posts.
type RegistrationForm struct {
	Email     string `validate:"required"`
	Role      string
	FirstName string
	LastName  string
	Password  string `validate:"required"`
	Password2 string
}

// UpdatePasswordRequest is the JSON body of the update_password endpoint.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=5,max=20"`
	NewPassword string `json:"new_password" validate:"required,min=5,max=20"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	IsActive  bool    `json:"is_active"`
	Role      *string `json:"role"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		Role:      user.Role,
	}
}

// UserService covers account creation, login and password changes.
type UserService interface {
	// Authenticate returns ErrInvalidCredentials for an unknown email and
	// for a wrong password alike.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CreateUser(ctx context.Context, req UserRequest) (*UserResponse, error)
	Register(ctx context.Context, form RegistrationForm) (*UserResponse, error)
	Profile(ctx context.Context, userID uint) (*UserResponse, error)
	UpdatePassword(ctx context.Context, userID uint, req UpdatePasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmPassword string) error
}

type userService struct {
	repo          repository.UserRepository
	hasher        auth.PasswordHasher
	allowSelfRole bool
}

type UserServiceOption func(*userService)

// WithSelfAssignedRole controls whether a role sent by the caller at sign-up
// is stored. When disabled every new account is created without a role.
func WithSelfAssignedRole(allow bool) UserServiceOption {
	return func(s *userService) {
		s.allowSelfRole = allow
	}
}

func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, opts ...UserServiceOption) UserService {
	s := &userService{repo: repo, hasher: hasher, allowSelfRole: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, req UserRequest) (*UserResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Email, req.Password, req.FirstName, req.LastName, req.Role)
}

// Register stores the role field from the form unless self-assigned roles
// are disabled.
func (s *userService) Register(ctx context.Context, form RegistrationForm) (*UserResponse, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}
	if form.Password != form.Password2 {
		return nil, ErrPasswordMismatch
	}
	var role *string
	if form.Role != "" {
		role = &form.Role
	}
	return s.create(ctx, form.Email, form.Password, form.FirstName, form.LastName, role)
}

// create checks for an existing email before inserting. Two concurrent
// registrations of the same email still collide on the unique index.
func (s *userService) create(ctx context.Context, email, password, firstName, lastName string, role *string) (*UserResponse, error) {
	if !s.allowSelfRole {
		role = nil
	}
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("create user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: hashed,
		FirstName:      firstName,
		LastName:       lastName,
		IsActive:       true,
		Role:           role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Str("email", email).Msg("Error creating user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger := logutil.GetOrDefault(ctx)
	logger.Info().Uint("user_id", user.ID).Msg("User created")
	resp := NewUserResponse(*user)
	return &resp, nil
}

func (s *userService) Profile(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	resp := NewUserResponse(*user)
	return &resp, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userID uint, req UpdatePasswordRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	user, err := s.verifyOld(ctx, userID, req.OldPassword)
	if err != nil {
		return err
	}
	return s.storePassword(ctx, user.ID, req.NewPassword)
}

// ChangePassword verifies the old password before comparing the new one
// with its confirmation.
func (s *userService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.verifyOld(ctx, userID, oldPassword)
	if err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	return s.storePassword(ctx, user.ID, newPassword)
}

func (s *userService) verifyOld(ctx context.Context, userID uint, oldPassword string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	if !s.hasher.Verify(oldPassword, user.HashedPassword) {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

func (s *userService) storePassword(ctx context.Context, userID uint, newPassword string) error {
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	logger := logutil.GetOrDefault(ctx)
	logger.Info().Uint("user_id", userID).Msg("Password changed")
	return nil
}
