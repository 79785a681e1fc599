package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type UserRepository interface {
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetUserByUID(ctx context.Context, uid string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.User, error)

	SearchUsers(ctx context.Context, search string, page domain.Page) ([]domain.User, int64, error)

	InsertUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)

	SoftDeleteUser(ctx context.Context, userID uuid.UUID) error
}

type AddressRepository interface {
	GetAddressByUser(ctx context.Context, userID uuid.UUID) (domain.Address, error)

	InsertAddress(ctx context.Context, address domain.Address) (domain.Address, error)
	UpdateAddress(ctx context.Context, address domain.Address) (domain.Address, error)
}
