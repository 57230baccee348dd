package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"potrack/internal/core/application/usecases/commands"
	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPORepository struct{ mock.Mock }

func (m *MockPORepository) Add(ctx context.Context, aggregate *po.PO) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPORepository) Update(ctx context.Context, aggregate *po.PO) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPORepository) Get(ctx context.Context, id kernel.UUID) (*po.PO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*po.PO), args.Error(1)
}

type MockPOUoW struct{ mock.Mock }

func (m *MockPOUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPOUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPOUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPOUoW) PORepository() ports.PORepository {
	args := m.Called()
	return args.Get(0).(ports.PORepository)
}

type MockPOUoWFactory struct{ mock.Mock }

func (m *MockPOUoWFactory) Create() commands.POUoW {
	args := m.Called()
	return args.Get(0).(commands.POUoW)
}

type MockSequenceIssuer struct{ mock.Mock }

func (m *MockSequenceIssuer) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event string, payload any) error {
	args := m.Called(ctx, event, payload)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreatePOCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreatePOCommand("Blue carry bags", kernel.NewUUID())
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		issuer.On("Next", ctx, ports.POSequence).Return(int64(14), nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*po.PO")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, ports.EventPOCreated, mock.AnythingOfType("commands.POCreatedPayload")).
			Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreatePOCommandHandler(factory, issuer, publisher, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "PO-14", created.PONumber())
	assert.Equal(t, po.StatusDraft, created.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	issuer.AssertExpectations(t)
	publisher.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreatePOCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreatePOCommand{} // not constructed properly

	h := commands.NewCreatePOCommandHandler(new(MockPOUoWFactory), new(MockSequenceIssuer), nil, testLogger())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreatePOCommandHandler_Handle_IssuerError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreatePOCommand("Blue carry bags", kernel.NewUUID())
	require.NoError(t, err)

	issuer := new(MockSequenceIssuer)
	issuer.On("Next", ctx, ports.POSequence).Return(int64(0), errors.New("sequence unavailable")).Once()

	factory := new(MockPOUoWFactory)

	h := commands.NewCreatePOCommandHandler(factory, issuer, nil, testLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
	issuer.AssertExpectations(t)
}

func TestCreatePOCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreatePOCommand("Blue carry bags", kernel.NewUUID())
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		issuer.On("Next", ctx, ports.POSequence).Return(int64(15), nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*po.PO")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreatePOCommandHandler(factory, issuer, publisher, testLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	publisher.AssertNotCalled(t, "Publish")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreatePOCommandHandler_Handle_PublishFailureDoesNotFailCommand(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreatePOCommand("Blue carry bags", kernel.NewUUID())
	require.NoError(t, err)

	repo := new(MockPORepository)
	uow := new(MockPOUoW)
	issuer := new(MockSequenceIssuer)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		issuer.On("Next", ctx, ports.POSequence).Return(int64(16), nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PORepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*po.PO")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, ports.EventPOCreated, mock.Anything).
			Return(errors.New("bus down")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPOUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreatePOCommandHandler(factory, issuer, publisher, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err, "a broken bus must never fail the mutation")
	assert.Equal(t, "PO-16", created.PONumber())
}
