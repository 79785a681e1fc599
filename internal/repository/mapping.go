package repository

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a user-supplied search term for ILIKE, escaping the
// wildcard characters so they match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Numeric columns travel as text (SELECT … ::text) so no driver-level
// decimal codec is needed.
func parseMoney(amount, code string) (domain.Money, error) {
	var m domain.Money

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return m, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return m, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}
