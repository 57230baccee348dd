// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and best-effort change notification.
package commands

import (
	"context"

	"potrack/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PORepoFactory provides access to the PO repository within a transaction.
	PORepoFactory interface {
		PORepository() ports.PORepository
	}

	// POUoW manages transactions for PO aggregate operations.
	POUoW interface {
		TxManager
		PORepoFactory
	}

	// POUoWFactory creates new PO unit of work instances.
	POUoWFactory interface {
		Create() POUoW
	}
)
