package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

// UserService is the admin side of account management.
type UserService struct {
	users    port.UserRepository
	currency currency.Unit
}

func NewUserService(users port.UserRepository, cur currency.Unit) *UserService {
	return &UserService{users: users, currency: cur}
}

func (s *UserService) List(ctx context.Context, search string, page domain.Page) ([]domain.User, int64, error) {
	users, total, err := s.users.SearchUsers(ctx, strings.TrimSpace(search), page)
	if err != nil {
		return nil, 0, fmt.Errorf("users.SearchUsers: %w", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user, apperror.NotFound("user not found")
		}
		return user, fmt.Errorf("users.GetUser: %w", err)
	}
	return user, nil
}

type CreateUserInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	var u domain.User

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)

	if in.FullName == "" {
		return u, apperror.Validation("full name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return u, apperror.Validation("a valid email is required")
	}
	if len(in.Password) < 6 {
		return u, apperror.Validation("password must be at least 6 characters")
	}

	role := domain.RoleUser
	if in.Role != "" {
		var err error
		if role, err = domain.ToRole(in.Role); err != nil {
			return u, apperror.Validation("invalid role: %s", in.Role)
		}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return u, err
	}

	user := domain.User{
		UID:          newUID(),
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         role,
		Currency:     s.currency,
	}

	stored, err := s.users.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return u, apperror.Conflict("email already registered")
		}
		return u, fmt.Errorf("users.InsertUser: %w", err)
	}

	return stored, nil
}

type UpdateUserInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Avatar   *string
	Verified *bool
	Role     *string
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (domain.User, error) {
	var u domain.User

	user, err := s.Get(ctx, userID)
	if err != nil {
		return u, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return u, apperror.Validation("full name cannot be empty")
		}
		user.FullName = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return u, apperror.Validation("a valid email is required")
		}
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Verified != nil {
		user.Verified = *in.Verified
	}
	if in.Role != nil {
		role, err := domain.ToRole(*in.Role)
		if err != nil {
			return u, apperror.Validation("invalid role: %s", *in.Role)
		}
		user.Role = role
	}

	stored, err := s.users.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return u, apperror.NotFound("user not found")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return u, apperror.Conflict("email already registered")
		}
		return u, fmt.Errorf("users.UpdateUser: %w", err)
	}

	return stored, nil
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SoftDeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NotFound("user not found")
		}
		return fmt.Errorf("users.SoftDeleteUser: %w", err)
	}
	return nil
}
