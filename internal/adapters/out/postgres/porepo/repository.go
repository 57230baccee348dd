package porepo

import (
	"context"
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPORepository implements PORepository using GORM.
type GormPORepository struct {
	db      *gorm.DB
	tracker aggregateTracker

	// lockOnGet makes Get take a FOR UPDATE lock on the PO row. Set when the
	// repository runs inside a transaction so concurrent read-modify-write
	// cycles on the same PO serialize instead of overwriting each other.
	lockOnGet bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPORepository creates a new GORM PO repository.
func NewGormPORepository(db *gorm.DB, tracker aggregateTracker) *GormPORepository {
	return &GormPORepository{
		db:      db,
		tracker: tracker,
	}
}

// WithRowLock returns a repository whose Get locks the PO row for the
// duration of the surrounding transaction.
func (r *GormPORepository) WithRowLock() *GormPORepository {
	return &GormPORepository{
		db:        r.db,
		tracker:   r.tracker,
		lockOnGet: true,
	}
}

// Add saves a new PO to the database.
func (r *GormPORepository) Add(ctx context.Context, aggregate *po.PO) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing PO to the database, including its machine rows.
func (r *GormPORepository) Update(ctx context.Context, aggregate *po.PO) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Use Session with FullSaveAssociations to properly update nested associations
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a PO by ID with all machine entries attached.
func (r *GormPORepository) Get(ctx context.Context, id kernel.UUID) (*po.PO, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if r.lockOnGet {
		// Locks only the pos row; the machine rows are written through the
		// same PO document, so the single lock serializes all writers.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto PODTO
	if err := query.Preload("Machines").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("po", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
