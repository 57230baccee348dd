package commands_test

import (
	"errors"
	"testing"
	"time"

	"potrack/internal/core/application/usecases/commands"
	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoredPO(t *testing.T) *po.PO {
	t.Helper()
	aggregate, err := po.NewPO(kernel.NewUUID(), "PO-3", "Shopping bags", kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	return aggregate
}

func newMachineNo(t *testing.T, no int) po.MachineNo {
	t.Helper()
	machineNo, err := po.NewMachineNo(no)
	require.NoError(t, err)
	return machineNo
}

func TestNewAddMachineCommand_EntryStageValidation(t *testing.T) {
	poID := kernel.NewUUID()

	t.Run("should accept a requirement entry", func(t *testing.T) {
		_, err := commands.NewAddMachineCommand(poID, newMachineNo(t, 1), &po.Requirement{Quantity: 10})
		require.NoError(t, err)
	})

	t.Run("should accept a packaging & dispatch entry", func(t *testing.T) {
		_, err := commands.NewAddMachineCommand(poID, newMachineNo(t, 1), &po.PackagingDispatch{NoOfBags: 5})
		require.NoError(t, err)
	})

	t.Run("should reject a mid-pipeline entry stage", func(t *testing.T) {
		_, err := commands.NewAddMachineCommand(poID, newMachineNo(t, 1), &po.Printing{})
		require.ErrorIs(t, err, commands.ErrInvalidEntryStage)
	})

	t.Run("should reject a requirement without quantity", func(t *testing.T) {
		_, err := commands.NewAddMachineCommand(poID, newMachineNo(t, 1), &po.Requirement{})
		require.Error(t, err)
	})

	t.Run("should reject a nil record", func(t *testing.T) {
		_, err := commands.NewAddMachineCommand(poID, newMachineNo(t, 1), nil)
		require.ErrorIs(t, err, commands.ErrStageRecordIsRequired)
	})
}

func TestAddMachineCommandHandler_Handle_RequirementEntry(t *testing.T) {
	ctx := t.Context()
	aggregate := newStoredPO(t)
	cmd, err := commands.NewAddMachineCommand(aggregate.ID(), newMachineNo(t, 1), &po.Requirement{Quantity: 250})
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, ports.EventPOUpdated, mock.AnythingOfType("commands.POUpdatedPayload")).
			Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddMachineCommandHandler(factory, issuer, publisher, testLogger())
	machine, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, machine)
	assert.Equal(t, 1, machine.MachineNo().Int())
	assert.True(t, machine.HasCompleted(po.StageKeyRequirement))
	assert.Equal(t, int64(0), machine.ChallanNo(), "requirement entry must not issue a challan")
	assert.Len(t, aggregate.Machines(), 1)
	issuer.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAddMachineCommandHandler_Handle_PackagingEntryIssuesChallan(t *testing.T) {
	ctx := t.Context()
	aggregate := newStoredPO(t)
	cmd, err := commands.NewAddMachineCommand(
		aggregate.ID(), newMachineNo(t, 2), &po.PackagingDispatch{NoOfBags: 80},
	)
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		issuer.On("Next", ctx, ports.ChallanSequence).Return(int64(9), nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, ports.EventPOUpdated, mock.Anything).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddMachineCommandHandler(factory, issuer, publisher, testLogger())
	machine, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(9), machine.ChallanNo())
	assert.False(t, machine.NeedsChallan())
	issuer.AssertExpectations(t)
}

func TestAddMachineCommandHandler_Handle_DuplicateMachineNo(t *testing.T) {
	ctx := t.Context()
	aggregate := newStoredPO(t)

	existing, err := po.NewMachine(kernel.NewUUID(), newMachineNo(t, 3))
	require.NoError(t, err)
	require.NoError(t, existing.RecordStage(&po.Requirement{Quantity: 10}))
	require.NoError(t, aggregate.AddMachine(existing))

	cmd, err := commands.NewAddMachineCommand(aggregate.ID(), newMachineNo(t, 3), &po.Requirement{Quantity: 20})
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddMachineCommandHandler(factory, new(MockSequenceIssuer), new(MockEventPublisher), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, po.ErrDuplicateMachineNo)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddMachineCommandHandler_Handle_IssuerErrorBurnsNothing(t *testing.T) {
	ctx := t.Context()
	aggregate := newStoredPO(t)
	cmd, err := commands.NewAddMachineCommand(
		aggregate.ID(), newMachineNo(t, 1), &po.PackagingDispatch{},
	)
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		issuer.On("Next", ctx, ports.ChallanSequence).Return(int64(0), errors.New("sequence unavailable")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddMachineCommandHandler(factory, issuer, new(MockEventPublisher), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err, "the handler must fail rather than fabricate a challan number")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
