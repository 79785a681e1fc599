package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
)

type userRepository struct {
	db DB
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{db: pool}
}

const userColumns = `id, uid, fullname, email, phone, password_hash, avatar, verified, role, currency,
	created_at, updated_at`

func (r *userRepository) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return r.getUserWhere(ctx, "id = $1", userID)
}

func (r *userRepository) GetUserByUID(ctx context.Context, uid string) (domain.User, error) {
	return r.getUserWhere(ctx, "uid = $1", uid)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUserWhere(ctx, "email = $1", email)
}

func (r *userRepository) getUserWhere(ctx context.Context, cond string, arg any) (domain.User, error) {
	var u domain.User

	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE %s AND deleted_at IS NULL", userColumns, cond),
		arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, fmt.Errorf("scanUser: %w", ErrUserNotFound)
		}
		return u, fmt.Errorf("scanUser: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.User, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID]domain.User{}, nil
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE id = ANY($1) AND deleted_at IS NULL", userColumns),
		userIDs)
	if err != nil {
		return nil, fmt.Errorf("users query: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanUser: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lo.SliceToMap(users, func(u domain.User) (uuid.UUID, domain.User) {
		return u.ID, u
	}), nil
}

func (r *userRepository) SearchUsers(ctx context.Context, search string, page domain.Page) ([]domain.User, int64, error) {
	cond := "deleted_at IS NULL"
	var args []any

	if search != "" {
		args = append(args, likePattern(search))
		cond += fmt.Sprintf(" AND (fullname ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT count(*) FROM users WHERE %s", cond), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users count: %w", err)
	}

	page = page.Normalize()
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users query: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanUser: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

func (r *userRepository) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	var u domain.User

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (uid, fullname, email, phone, password_hash, avatar, verified, role, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		user.UID, user.FullName, user.Email, user.Phone, user.PasswordHash,
		user.Avatar, user.Verified, string(user.Role), user.Currency.String())

	stored := user
	if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return u, fmt.Errorf("users insert: %w", ErrDuplicate)
		}
		return u, fmt.Errorf("users insert: %w", err)
	}

	return stored, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	var u domain.User

	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE users
		SET fullname = $2, email = $3, phone = $4, avatar = $5, verified = $6, role = $7, currency = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s`, userColumns),
		user.ID, user.FullName, user.Email, user.Phone, user.Avatar,
		user.Verified, string(user.Role), user.Currency.String())

	stored, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, fmt.Errorf("users update: %w", ErrUserNotFound)
		}
		if isUniqueViolation(err) {
			return u, fmt.Errorf("users update: %w", ErrDuplicate)
		}
		return u, fmt.Errorf("users update: %w", err)
	}

	return stored, nil
}

func (r *userRepository) SoftDeleteUser(ctx context.Context, userID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		userID)
	if err != nil {
		return fmt.Errorf("users update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u          domain.User
		role, code string
	)

	if err := row.Scan(
		&u.ID, &u.UID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Avatar, &u.Verified, &role, &code, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return u, err
	}

	parsedRole, err := domain.ToRole(role)
	if err != nil {
		return u, fmt.Errorf("domain.ToRole[%s]: %w", role, err)
	}
	u.Role = parsedRole

	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return u, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	u.Currency = parsedCurrency

	return u, nil
}
