package po_test

import (
	"fmt"
	"testing"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(po.StatusUnknown))
		assert.Equal(t, 1, int(po.StatusDraft))
		assert.Equal(t, 2, int(po.StatusInProgress))
		assert.Equal(t, 3, int(po.StatusCompleted))
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []po.Status{
			po.StatusDraft,
			po.StatusInProgress,
			po.StatusCompleted,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject invalid status values", func(t *testing.T) {
		invalidStatuses := []po.Status{
			po.StatusUnknown,
			po.Status(-1),
			po.Status(4),
			po.Status(100),
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject status value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
				assert.Contains(t, err.Error(), "status is invalid")
			})
		}
	})
}

func TestStatus_FromString(t *testing.T) {
	t.Run("should parse known names", func(t *testing.T) {
		testCases := map[string]po.Status{
			"draft":       po.StatusDraft,
			"in-progress": po.StatusInProgress,
			"completed":   po.StatusCompleted,
		}

		for name, expected := range testCases {
			status, err := po.StatusFromString(name)
			require.NoError(t, err)
			assert.Equal(t, expected, status)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := po.StatusFromString("cancelled")
		require.Error(t, err)
	})

	t.Run("should reject the zero value name", func(t *testing.T) {
		_, err := po.StatusFromString("unknown")
		require.Error(t, err)
	})
}

func TestStatus_Start(t *testing.T) {
	t.Run("should start from draft", func(t *testing.T) {
		started, err := po.StatusDraft.Start()

		require.NoError(t, err)
		assert.Equal(t, po.StatusInProgress, started)
	})

	t.Run("should be idempotent from in-progress", func(t *testing.T) {
		started, err := po.StatusInProgress.Start()

		require.NoError(t, err)
		assert.Equal(t, po.StatusInProgress, started)
	})

	t.Run("should never revert a completed status", func(t *testing.T) {
		_, err := po.StatusCompleted.Start()
		require.Error(t, err)
	})
}

func TestStatus_Complete(t *testing.T) {
	t.Run("should complete from any valid status", func(t *testing.T) {
		for _, status := range []po.Status{po.StatusDraft, po.StatusInProgress, po.StatusCompleted} {
			completed, err := status.Complete()

			require.NoError(t, err)
			assert.Equal(t, po.StatusCompleted, completed)
		}
	})

	t.Run("should reject an invalid status", func(t *testing.T) {
		_, err := po.StatusUnknown.Complete()
		require.Error(t, err)
	})
}
