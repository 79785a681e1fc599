package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is a user's saved shipping address. One active row per user.
type Address struct {
	ID     uuid.UUID
	UserID uuid.UUID

	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (a Address) Validate() error {
	switch {
	case a.Line1 == "":
		return errRequired("line1")
	case a.City == "":
		return errRequired("city")
	case a.State == "":
		return errRequired("state")
	case a.Country == "":
		return errRequired("country")
	}
	return nil
}
