package po_test

import (
	"testing"
	"time"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createValidPO(t *testing.T) *po.PO {
	t.Helper()
	aggregate, err := po.NewPO(kernel.NewUUID(), "PO-1", "Blue carry bags", kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, aggregate)
	return aggregate
}

func addMachine(t *testing.T, aggregate *po.PO, no int) *po.Machine {
	t.Helper()
	machine := createValidMachine(t, no)
	require.NoError(t, machine.RecordStage(&po.Requirement{Quantity: 100}))
	require.NoError(t, aggregate.AddMachine(machine))
	return machine
}

func TestNewPO(t *testing.T) {
	t.Run("should create a draft PO at the requirement stage", func(t *testing.T) {
		aggregate := createValidPO(t)

		require.NoError(t, aggregate.Validate())
		assert.Equal(t, "PO-1", aggregate.PONumber())
		assert.Equal(t, "Blue carry bags", aggregate.JobTitle())
		assert.Equal(t, po.StatusDraft, aggregate.Status())
		assert.Equal(t, po.StageRequirement, aggregate.CurrentStage())
		assert.False(t, aggregate.IsFinalized())
		assert.Empty(t, aggregate.Machines())
	})

	t.Run("should trim the job title", func(t *testing.T) {
		aggregate, err := po.NewPO(kernel.NewUUID(), "PO-2", "  D-cut bags  ", kernel.NewUUID(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, "D-cut bags", aggregate.JobTitle())
	})

	t.Run("should reject an empty job title", func(t *testing.T) {
		_, err := po.NewPO(kernel.NewUUID(), "PO-2", "   ", kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, po.ErrJobTitleIsRequired)
	})

	t.Run("should reject an empty PO number", func(t *testing.T) {
		_, err := po.NewPO(kernel.NewUUID(), "", "Bags", kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, po.ErrPONumberIsRequired)
	})

	t.Run("should reject an invalid creator", func(t *testing.T) {
		var invalidID kernel.UUID
		_, err := po.NewPO(kernel.NewUUID(), "PO-2", "Bags", invalidID, time.Now())

		require.Error(t, err)
	})
}

func TestPO_AddMachine(t *testing.T) {
	t.Run("should admit a machine and promote the draft", func(t *testing.T) {
		aggregate := createValidPO(t)

		machine := addMachine(t, aggregate, 1)

		assert.Len(t, aggregate.Machines(), 1)
		assert.Equal(t, po.StatusInProgress, aggregate.Status())

		found, err := aggregate.MachineByNo(machine.MachineNo())
		require.NoError(t, err)
		assert.True(t, found.IsEqual(machine))
	})

	t.Run("should reject a seventh machine", func(t *testing.T) {
		aggregate := createValidPO(t)
		for no := 1; no <= 6; no++ {
			addMachine(t, aggregate, no)
		}
		assert.False(t, aggregate.CanAddMoreMachines())

		extra := createValidMachine(t, 1)
		err := aggregate.AddMachine(extra)

		require.ErrorIs(t, err, po.ErrMachineLimitReached)
		assert.Len(t, aggregate.Machines(), 6)
	})

	t.Run("should reject a duplicate machine number", func(t *testing.T) {
		aggregate := createValidPO(t)
		addMachine(t, aggregate, 3)

		duplicate := createValidMachine(t, 3)
		err := aggregate.AddMachine(duplicate)

		require.ErrorIs(t, err, po.ErrDuplicateMachineNo)
	})

	t.Run("should reject admission on a finalized PO", func(t *testing.T) {
		aggregate := createValidPO(t)
		require.NoError(t, aggregate.Finalize())

		err := aggregate.AddMachine(createValidMachine(t, 1))

		require.ErrorIs(t, err, po.ErrPOIsFinalized)
	})
}

func TestPO_AvailableMachineNumbers(t *testing.T) {
	t.Run("should list 1-6 for an empty PO", func(t *testing.T) {
		aggregate := createValidPO(t)

		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, aggregate.AvailableMachineNumbers())
	})

	t.Run("should exclude used numbers in ascending order", func(t *testing.T) {
		aggregate := createValidPO(t)
		addMachine(t, aggregate, 2)
		addMachine(t, aggregate, 5)

		assert.Equal(t, []int{1, 3, 4, 6}, aggregate.AvailableMachineNumbers())
	})
}

func TestPO_RecordMachineStage(t *testing.T) {
	t.Run("should record a stage on an owned machine", func(t *testing.T) {
		aggregate := createValidPO(t)
		machine := addMachine(t, aggregate, 1)

		updated, err := aggregate.RecordMachineStage(machine.ID(), &po.Printing{NoOfRolls: 3})

		require.NoError(t, err)
		assert.True(t, updated.HasCompleted(po.StageKeyPrinting))
	})

	t.Run("should reject writes on a finalized PO", func(t *testing.T) {
		aggregate := createValidPO(t)
		machine := addMachine(t, aggregate, 1)
		require.NoError(t, aggregate.Finalize())

		_, err := aggregate.RecordMachineStage(machine.ID(), &po.Printing{})

		require.ErrorIs(t, err, po.ErrPOIsFinalized)
	})

	t.Run("should reject a machine from another PO", func(t *testing.T) {
		aggregate := createValidPO(t)
		addMachine(t, aggregate, 1)

		_, err := aggregate.RecordMachineStage(kernel.NewUUID(), &po.Printing{})

		require.ErrorIs(t, err, po.ErrMachineNotFound)
	})
}

func TestPO_AllMachinesCompleted(t *testing.T) {
	t.Run("should be false with no machines", func(t *testing.T) {
		aggregate := createValidPO(t)

		assert.False(t, aggregate.AllMachinesCompleted(po.StageKeyRequirement))
	})

	t.Run("should require every machine to carry the stage", func(t *testing.T) {
		aggregate := createValidPO(t)
		addMachine(t, aggregate, 1)
		second := addMachine(t, aggregate, 2)

		assert.True(t, aggregate.AllMachinesCompleted(po.StageKeyRequirement))
		assert.False(t, aggregate.AllMachinesCompleted(po.StageKeyPrinting))

		_, err := aggregate.RecordMachineStage(second.ID(), &po.Printing{})
		require.NoError(t, err)
		assert.False(t, aggregate.AllMachinesCompleted(po.StageKeyPrinting),
			"one machine missing the stage must keep the signal false")
	})
}

func TestPO_AdvanceToNextStage(t *testing.T) {
	t.Run("should advance, timestamp the new stage, and promote the draft", func(t *testing.T) {
		aggregate := createValidPO(t)

		require.NoError(t, aggregate.AdvanceToNextStage())

		assert.Equal(t, po.StageExtrusion, aggregate.CurrentStage())
		assert.Equal(t, po.StatusInProgress, aggregate.Status())
		assert.Contains(t, aggregate.StageCompletedAt(), po.StageExtrusion)
		assert.NotContains(t, aggregate.StageCompletedAt(), po.StageRequirement)
	})

	t.Run("should finalize on reaching the terminal stage", func(t *testing.T) {
		aggregate := createValidPO(t)
		for i := 0; i < 6; i++ {
			require.NoError(t, aggregate.AdvanceToNextStage())
		}

		assert.Equal(t, po.StageCompleted, aggregate.CurrentStage())
		assert.Equal(t, po.StatusCompleted, aggregate.Status())
		assert.True(t, aggregate.IsFinalized())
	})

	t.Run("should reject advancing a completed PO", func(t *testing.T) {
		aggregate := createValidPO(t)
		for i := 0; i < 6; i++ {
			require.NoError(t, aggregate.AdvanceToNextStage())
		}

		err := aggregate.AdvanceToNextStage()

		require.ErrorIs(t, err, po.ErrPOAlreadyCompleted)
	})

	t.Run("should reject advancing a PO finalized mid-pipeline", func(t *testing.T) {
		aggregate := createValidPO(t)
		require.NoError(t, aggregate.AdvanceToNextStage())
		require.NoError(t, aggregate.Finalize())

		err := aggregate.AdvanceToNextStage()

		require.ErrorIs(t, err, po.ErrPOIsFinalized)
		assert.Equal(t, po.StageExtrusion, aggregate.CurrentStage())
		assert.NotContains(t, aggregate.StageCompletedAt(), po.StagePrinting)
	})
}

func TestPO_Finalize(t *testing.T) {
	t.Run("should complete and close the PO", func(t *testing.T) {
		aggregate := createValidPO(t)

		require.NoError(t, aggregate.Finalize())

		assert.True(t, aggregate.IsFinalized())
		assert.Equal(t, po.StatusCompleted, aggregate.Status())
	})

	t.Run("should block subsequent stage confirmation", func(t *testing.T) {
		aggregate := createValidPO(t)
		machine := addMachine(t, aggregate, 1)
		require.NoError(t, aggregate.Finalize())

		_, err := aggregate.CompleteMachineStage(machine.ID(), po.StageKeyPrinting)

		require.ErrorIs(t, err, po.ErrPOIsFinalized)
	})
}

func TestRestorePO(t *testing.T) {
	t.Run("should rebuild the aggregate with machines and bookkeeping", func(t *testing.T) {
		id := kernel.NewUUID()
		createdBy := kernel.NewUUID()
		createdAt := time.Now().Add(-time.Hour)
		stageCompletedAt := map[po.Stage]time.Time{po.StageExtrusion: time.Now()}

		machine := createValidMachine(t, 4)
		require.NoError(t, machine.RecordStage(&po.Requirement{Quantity: 50}))

		aggregate, err := po.RestorePO(
			id, "PO-9", "Garment bags", createdBy, createdAt,
			po.StageExtrusion, po.StatusInProgress, stageCompletedAt, false,
			[]*po.Machine{machine},
		)

		require.NoError(t, err)
		assert.Equal(t, po.StageExtrusion, aggregate.CurrentStage())
		assert.Equal(t, po.StatusInProgress, aggregate.Status())
		assert.Len(t, aggregate.Machines(), 1)
		assert.Contains(t, aggregate.StageCompletedAt(), po.StageExtrusion)
	})

	t.Run("should reject an invalid stage", func(t *testing.T) {
		_, err := po.RestorePO(
			kernel.NewUUID(), "PO-9", "Bags", kernel.NewUUID(), time.Now(),
			po.StageUnknown, po.StatusDraft, nil, false, nil,
		)

		require.Error(t, err)
	})
}
