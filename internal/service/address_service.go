package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

// AddressService manages the single saved address per user.
type AddressService struct {
	addresses port.AddressRepository
}

func NewAddressService(addresses port.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// Get returns the saved address, or nil when the user has none. Having
// no address is a normal state, not an error.
func (s *AddressService) Get(ctx context.Context, userID uuid.UUID) (*domain.Address, error) {
	address, err := s.addresses.GetAddressByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("addresses.GetAddressByUser: %w", err)
	}
	return &address, nil
}

type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (s *AddressService) Add(ctx context.Context, userID uuid.UUID, in AddressInput) (domain.Address, error) {
	var a domain.Address

	address := domain.Address{
		UserID:     userID,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
	if err := address.Validate(); err != nil {
		return a, apperror.Validation("invalid address: %v", err)
	}

	stored, err := s.addresses.InsertAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return a, apperror.Conflict("user already has an address")
		}
		return a, fmt.Errorf("addresses.InsertAddress: %w", err)
	}

	return stored, nil
}

type UpdateAddressInput struct {
	Line1      *string
	Line2      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

func (s *AddressService) Update(ctx context.Context, userID uuid.UUID, in UpdateAddressInput) (domain.Address, error) {
	var a domain.Address

	address, err := s.addresses.GetAddressByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return a, apperror.NotFound("address not found")
		}
		return a, fmt.Errorf("addresses.GetAddressByUser: %w", err)
	}

	if in.Line1 != nil {
		address.Line1 = *in.Line1
	}
	if in.Line2 != nil {
		address.Line2 = *in.Line2
	}
	if in.City != nil {
		address.City = *in.City
	}
	if in.State != nil {
		address.State = *in.State
	}
	if in.PostalCode != nil {
		address.PostalCode = *in.PostalCode
	}
	if in.Country != nil {
		address.Country = *in.Country
	}

	if err := address.Validate(); err != nil {
		return a, apperror.Validation("invalid address: %v", err)
	}

	stored, err := s.addresses.UpdateAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return a, apperror.NotFound("address not found")
		}
		return a, fmt.Errorf("addresses.UpdateAddress: %w", err)
	}

	return stored, nil
}
