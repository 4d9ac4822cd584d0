package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// TransactionType distinguishes cash in from cash out.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrMissingCategory = errors.New("missing category")
)

// Date is a calendar date with no time-of-day semantics. It normalizes to
// UTC midnight so that equality and grouping ignore clock and zone.
type Date struct {
	time.Time
}

// NewDate creates a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts a plain calendar date (2006-01-02) or a full ISO-8601
// timestamp, keeping only the calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Calendar returns the date formatted for edit forms (2006-01-02).
func (d Date) Calendar() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as an ISO-8601 timestamp at UTC midnight.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts both calendar dates and full timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction is a single recorded cash movement. ID is assigned by the
// store on create and is opaque to everything else.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      Money           `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
}

// Validate checks the invariants a stored transaction must satisfy.
// Description may be empty (legacy records) and the category may be any
// string: unknown keys are displayed under "Other" but never rejected.
func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Type != TypeExpense && t.Type != TypeIncome {
		return ErrInvalidType
	}
	return nil
}

// Budget is a spending ceiling for one category in one calendar month.
// The month is stored as text ("1".."12" or zero-padded), matching the wire
// format the original records carry.
type Budget struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
	Month    string `json:"month"`
	Year     int    `json:"year"`
}

// MonthNumber parses the stored month text. Returns 0 when unparseable.
func (b Budget) MonthNumber() int {
	m, err := strconv.Atoi(strings.TrimLeft(strings.TrimSpace(b.Month), "0"))
	if err != nil {
		return 0
	}
	return m
}

// Validate checks the invariants a stored budget must satisfy. Duplicate
// budgets for the same (category, month, year) are permitted; uniqueness is
// deliberately not enforced.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrMissingCategory
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if m := b.MonthNumber(); m < 1 || m > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}
