package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Utilities     Category = "utilities"
	Entertainment Category = "entertainment"
	Healthcare    Category = "healthcare"
	Shopping      Category = "shopping"
	Other         Category = "other"

	// FilterAll matches every category when passed to a filter.
	FilterAll = "all"
)

type (
	Category string

	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		Category    Category  `json:"category"`
		Date        time.Time `json:"date"`
	}

	// Patch carries the fields of an update; nil fields are left untouched.
	Patch struct {
		Description *string
		Amount      *float64
		Category    *Category
	}

	categoryInfo struct {
		label string
		icon  string
	}
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNotFound        = errors.New("expense not found")
	ErrDeserialization = errors.New("malformed stored expenses")
	ErrPersistence     = errors.New("persist expenses")
)

var categories = []Category{Food, Transport, Utilities, Entertainment, Healthcare, Shopping, Other}

var categoryInfos = map[Category]categoryInfo{
	Food:          {label: "Food & Dining", icon: "🍽️"},
	Transport:     {label: "Transportation", icon: "🚗"},
	Utilities:     {label: "Utilities", icon: "💡"},
	Entertainment: {label: "Entertainment", icon: "🎬"},
	Healthcare:    {label: "Healthcare", icon: "⚕️"},
	Shopping:      {label: "Shopping", icon: "🛍️"},
	Other:         {label: "Other", icon: "📝"},
}

// Categories returns the known categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory trims s and returns the matching category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryInfos[c]
	return ok
}

// Label returns the human readable name, or "Unknown" for categories
// outside the enumeration.
func (c Category) Label() string {
	if info, ok := categoryInfos[c]; ok {
		return info.label
	}
	return "Unknown"
}

func (c Category) Icon() string {
	if info, ok := categoryInfos[c]; ok {
		return info.icon
	}
	return "❔"
}

func (c Category) String() string {
	return string(c)
}

// Validate checks the patch before it is merged into a record.
func (p Patch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Amount != nil && !finite(*p.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil
}

// Apply returns e with the patch fields merged over it. ID and Date are
// never touched.
func (p Patch) Apply(e Expense) Expense {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	return e
}
