package models

import (
	"math"
	"strings"
	"time"
)

// Recipe is the aggregate: scalar attributes plus unordered tag and
// ingredient sets and an optional stored image. UserID never changes after
// creation.
type Recipe struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TimeMinutes int       `json:"time_minutes"`
	Price       string    `json:"price"`
	Link        string    `json:"link"`
	ImageKey    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`

	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return Invalid("title is required")
	}
	if err := ValidateTimeMinutes(r.TimeMinutes); err != nil {
		return err
	}
	return ValidatePrice(r.Price)
}

// ValidateTimeMinutes bounds the value to the integer column range.
func ValidateTimeMinutes(v int) error {
	if v < 0 {
		return Invalid("time_minutes must be >= 0")
	}
	if v > math.MaxInt32 {
		return Invalid("time_minutes too large")
	}
	return nil
}

// maxPriceWholeDigits matches the numeric(7,2) column: five whole digits,
// two fractional.
const maxPriceWholeDigits = 5

// ValidatePrice accepts a non-negative decimal string with at most two
// fractional digits, e.g. "5.50". Prices are kept as strings end to end and
// stored as numeric; no float arithmetic happens on them.
func ValidatePrice(s string) error {
	if s == "" {
		return Invalid("price is required")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return Invalid("price must have at most two decimal places")
	}
	if !allDigits(whole) || (hasFrac && !allDigits(frac)) {
		return Invalid("price must be a non-negative decimal")
	}
	if len(strings.TrimLeft(whole, "0")) > maxPriceWholeDigits {
		return Invalid("price must not exceed 99999.99")
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
