package store

import (
	"time"

	"gorm.io/gorm"
)

// Filter narrows a List call. Zero values impose no constraint.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Category string
	// Equals holds exact-match column constraints such as type or status.
	Equals map[string]string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.From != nil {
		tx = tx.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("date <= ?", *f.To)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	for column, value := range f.Equals {
		if value != "" {
			tx = tx.Where(column+" = ?", value)
		}
	}
	return tx
}

// Cond is an exact-match constraint added to a scoped write.
type Cond struct {
	Column string
	Value  any
}

// Eq constrains column to value.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Value: value}
}

func where(tx *gorm.DB, conds []Cond) *gorm.DB {
	for _, c := range conds {
		tx = tx.Where(c.Column+" = ?", c.Value)
	}
	return tx
}
