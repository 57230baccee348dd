package po_test

import (
	"testing"

	"potrack/internal/core/domain/model/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_Next(t *testing.T) {
	t.Run("should advance linearly through all stages", func(t *testing.T) {
		expected := []po.Stage{
			po.StageExtrusion,
			po.StagePrinting,
			po.StageCutting,
			po.StagePunch,
			po.StagePackaging,
			po.StageCompleted,
		}

		current := po.StageRequirement
		for _, want := range expected {
			next, err := current.Next()

			require.NoError(t, err)
			assert.Equal(t, want, next)
			current = next
		}
	})

	t.Run("should reject advancing the terminal stage", func(t *testing.T) {
		_, err := po.StageCompleted.Next()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "terminal")
	})

	t.Run("should reject invalid stages", func(t *testing.T) {
		_, err := po.StageUnknown.Next()
		require.Error(t, err)

		_, err = po.Stage(99).Next()
		require.Error(t, err)
	})
}

func TestStage_FromString(t *testing.T) {
	t.Run("should round-trip every valid stage", func(t *testing.T) {
		stages := []po.Stage{
			po.StageRequirement,
			po.StageExtrusion,
			po.StagePrinting,
			po.StageCutting,
			po.StagePunch,
			po.StagePackaging,
			po.StageCompleted,
		}

		for _, stage := range stages {
			parsed, err := po.StageFromString(stage.String())

			require.NoError(t, err)
			assert.Equal(t, stage, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := po.StageFromString("shipping")
		require.Error(t, err)
	})
}

func TestStage_DisplayName(t *testing.T) {
	assert.Equal(t, "Requirement", po.StageRequirement.DisplayName())
	assert.Equal(t, "Packaging & Dispatch", po.StagePackaging.DisplayName())
	assert.Equal(t, "Completed", po.StageCompleted.DisplayName())
	assert.Equal(t, "Unknown", po.StageUnknown.DisplayName())
}
