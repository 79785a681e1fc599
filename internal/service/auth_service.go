package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
	"github.com/abdulrehan17773/am-backend/internal/token"
)

const (
	uidLength   = 12
	uidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// AuthService handles registration, credential checks and token
// attribution.
type AuthService struct {
	users    port.UserRepository
	tokens   *token.Manager
	currency currency.Unit
}

func NewAuthService(users port.UserRepository, tokens *token.Manager, cur currency.Unit) *AuthService {
	return &AuthService{users: users, tokens: tokens, currency: cur}
}

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
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
		Role:         domain.RoleUser,
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

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	var u domain.User

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return u, "", apperror.Unauthorized("invalid email or password")
		}
		return u, "", fmt.Errorf("users.GetUserByEmail: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return u, "", apperror.Unauthorized("invalid email or password")
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return u, "", fmt.Errorf("tokens.Issue: %w", err)
	}

	return user, signed, nil
}

// Authenticate resolves a bearer token to its live user record.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (domain.User, error) {
	var u domain.User

	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return u, apperror.Unauthorized("invalid or expired token")
	}

	user, err := s.users.GetUserByUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return u, apperror.Unauthorized("invalid or expired token")
		}
		return u, fmt.Errorf("users.GetUserByUID: %w", err)
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newUID returns the short public user id embedded in tokens and admin
// views, so internal uuids never leave the system.
func newUID() string {
	buf := make([]byte, uidLength)
	_, _ = rand.Read(buf)

	for i := range buf {
		buf[i] = uidAlphabet[int(buf[i])%len(uidAlphabet)]
	}

	return string(buf)
}
