package queries

import (
	"errors"
	"strings"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/guard"
)

var ErrListPOsQueryIsNotConstructed = errors.New(
	"ListPOsQuery must be created via NewListPOsQuery constructor",
)

// ListPOsQuery retrieves PO summaries, newest first. All filters are
// optional: a creator filter restricts results to one admin's POs, a search
// term matches PO numbers case-insensitively, and a stage filter matches the
// PO-level current stage.
type ListPOsQuery struct { //nolint:recvcheck //using for validation
	createdBy *kernel.UUID
	search    string
	stage     *po.Stage

	guard guard.ConstructorGuard
}

// NewListPOsQuery creates a PO listing query. Pass nil/empty values to leave
// a filter unset.
func NewListPOsQuery(createdBy *kernel.UUID, search string, stage *po.Stage) (ListPOsQuery, error) {
	query := ListPOsQuery{
		search: strings.TrimSpace(search),
		guard:  guard.NewConstructorGuard(),
	}

	if createdBy != nil {
		if err := createdBy.Validate(); err != nil {
			return ListPOsQuery{}, err
		}
		query.createdBy = createdBy
	}

	if stage != nil {
		if err := stage.Validate(); err != nil {
			return ListPOsQuery{}, err
		}
		query.stage = stage
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListPOsQuery) Validate() error {
	return q.guard.Validate(ErrListPOsQueryIsNotConstructed)
}

// CreatedBy returns the creator filter, nil when unset.
func (q ListPOsQuery) CreatedBy() *kernel.UUID {
	return q.createdBy
}

// Search returns the PO-number search term, empty when unset.
func (q ListPOsQuery) Search() string {
	return q.search
}

// Stage returns the PO-level stage filter, nil when unset.
func (q ListPOsQuery) Stage() *po.Stage {
	return q.stage
}
