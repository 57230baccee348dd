// Package counterrepo provides the database-backed sequence issuer. Named
// counters live in a single table; each issue is an atomic upsert-increment,
// so concurrent callers never receive the same value. Counters are bumped
// outside the PO transaction: a failed PO write burns the issued number
// rather than reusing it.
package counterrepo

import (
	"context"

	"gorm.io/gorm"
)

// CounterDTO represents the database structure for persisting named counters.
type CounterDTO struct {
	Name  string `gorm:"type:varchar(64);primaryKey"`
	Value int64  `gorm:"type:bigint;not null"`
}

// TableName specifies the database table name for counters.
// Overrides GORM's default naming convention to use "counters" instead of "counter_dtos".
func (CounterDTO) TableName() string {
	return "counters"
}

// GormSequenceIssuer implements SequenceIssuer using GORM.
type GormSequenceIssuer struct {
	db *gorm.DB
}

// NewGormSequenceIssuer creates a new GORM sequence issuer.
func NewGormSequenceIssuer(db *gorm.DB) *GormSequenceIssuer {
	return &GormSequenceIssuer{db: db}
}

// Next atomically increments the named counter and returns its new value.
// The first call for a name creates the counter at 1.
func (i *GormSequenceIssuer) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := i.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
		name,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}

	return value, nil
}
