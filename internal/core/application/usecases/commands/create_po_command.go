package commands

import (
	"errors"
	"strings"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/guard"
)

var (
	ErrCreatePOCommandIsNotConstructed = errors.New(
		"CreatePOCommand must be created via NewCreatePOCommand constructor",
	)
	ErrJobTitleIsRequired = errors.New("job title is required")
)

// CreatePOCommand represents a request to create a new purchase order.
// The PO number is not part of the command: it is issued from the PO
// sequence by the handler so that it is assigned exactly once.
//
// Example:
//
//	cmd, err := NewCreatePOCommand("Job X", adminID)
//	if err != nil {
//	    return fmt.Errorf("invalid PO data: %w", err)
//	}
//
//	handler := NewCreatePOCommandHandler(uowFactory, issuer, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create PO: %w", err)
//	}
//	fmt.Printf("created %s", created.PONumber())
type CreatePOCommand struct { //nolint:recvcheck //using for validation
	jobTitle  string
	createdBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreatePOCommand creates a command to register a new purchase order.
// Validates that the job title is non-empty after trimming and the creator
// identity is valid.
func NewCreatePOCommand(jobTitle string, createdBy kernel.UUID) (CreatePOCommand, error) {
	cmd := CreatePOCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobTitle(jobTitle),
		cmd.setCreatedBy(createdBy),
	); err != nil {
		return CreatePOCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePOCommand) Validate() error {
	return c.guard.Validate(ErrCreatePOCommandIsNotConstructed)
}

// JobTitle returns the trimmed job title.
func (c CreatePOCommand) JobTitle() string {
	return c.jobTitle
}

// CreatedBy returns the identity of the creating admin.
func (c CreatePOCommand) CreatedBy() kernel.UUID {
	return c.createdBy
}

func (c *CreatePOCommand) setJobTitle(jobTitle string) error {
	trimmed := strings.TrimSpace(jobTitle)
	if trimmed == "" {
		return ErrJobTitleIsRequired
	}

	c.jobTitle = trimmed
	return nil
}

func (c *CreatePOCommand) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}

	c.createdBy = createdBy
	return nil
}
