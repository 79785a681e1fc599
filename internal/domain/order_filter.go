package domain

import (
	"github.com/google/uuid"
)

// OrderFilter has AND semantics across fields.
type OrderFilter struct {
	UserID          *uuid.UUID
	Statuses        []OrderStatus
	PaymentStatuses []PaymentStatus
	// Search matches a case-insensitive substring of the public order id.
	Search string
}

// Page is a 1-based page request; zero values fall back to defaults.
type Page struct {
	Number int
	Limit  int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Limit
}

// TotalPages computes the page count for a result set of size total.
func (p Page) TotalPages(total int64) int64 {
	n := p.Normalize()
	if total == 0 {
		return 0
	}
	return (total + int64(n.Limit) - 1) / int64(n.Limit)
}
