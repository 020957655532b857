package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusSelector_Select(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	t.Run("empty candidate set selects nothing", func(t *testing.T) {
		sel := NewFocusSelector(tuning.Default()).Select(nil, now)
		assert.Equal(t, SelectionNone, sel.Kind)
	})

	t.Run("clear leader becomes the focus", func(t *testing.T) {
		leader := makeTask(t, value_objects.TierMedium, 1700, 8)
		candidates := []*task.Task{
			makeTask(t, value_objects.TierMedium, 1450, 8),
			leader,
			makeTask(t, value_objects.TierMedium, 1500, 8),
		}

		sel := NewFocusSelector(tuning.Default()).Select(candidates, now)
		require.Equal(t, SelectionFocus, sel.Kind)
		assert.Equal(t, leader.ID(), sel.Focus.Task.ID())
		assert.Equal(t, value_objects.TierMedium, sel.Tier)
	})

	t.Run("higher tier wins regardless of rating", func(t *testing.T) {
		highTier := makeTask(t, value_objects.TierHigh, 1400, 5)
		candidates := []*task.Task{
			makeTask(t, value_objects.TierLow, 1900, 5),
			makeTask(t, value_objects.TierMedium, 1800, 5),
			highTier,
		}

		sel := NewFocusSelector(tuning.Default()).Select(candidates, now)
		require.Equal(t, SelectionFocus, sel.Kind)
		assert.Equal(t, value_objects.TierHigh, sel.Tier)
		assert.Equal(t, highTier.ID(), sel.Focus.Task.ID())
	})

	t.Run("scores within epsilon report a tie", func(t *testing.T) {
		// 1500 vs 1510 normalizes to a gap of ~0.0067, under the 0.01
		// default epsilon.
		a := makeTask(t, value_objects.TierMedium, 1510, 8)
		b := makeTask(t, value_objects.TierMedium, 1500, 8)
		c := makeTask(t, value_objects.TierMedium, 1300, 8)

		sel := NewFocusSelector(tuning.Default()).Select([]*task.Task{a, b, c}, now)
		require.Equal(t, SelectionTie, sel.Kind)
		require.Len(t, sel.Tied, 2)
		assert.InDelta(t, sel.Tied[0].Importance, sel.Tied[1].Importance, tuning.DefaultTieEpsilon)
	})

	t.Run("scores at least epsilon apart do not tie", func(t *testing.T) {
		// A gap of exactly 15 rating points is 0.01 after normalization,
		// which is not strictly inside the epsilon.
		a := makeTask(t, value_objects.TierMedium, 1515, 8)
		b := makeTask(t, value_objects.TierMedium, 1500, 8)

		sel := NewFocusSelector(tuning.Default()).Select([]*task.Task{a, b}, now)
		require.Equal(t, SelectionFocus, sel.Kind)
		assert.Equal(t, a.ID(), sel.Focus.Task.ID())
	})

	t.Run("urgency can break a rating tie", func(t *testing.T) {
		due := now.Add(-time.Hour)
		urgent := makeTaskDue(t, 1500, &due)
		relaxed := makeTaskDue(t, 1500, nil)

		sel := NewFocusSelector(tuning.Default()).Select([]*task.Task{relaxed, urgent}, now)
		require.Equal(t, SelectionFocus, sel.Kind)
		assert.Equal(t, urgent.ID(), sel.Focus.Task.ID())
	})

	t.Run("never-compared tasks trigger an initial ranking prompt", func(t *testing.T) {
		rated := makeTask(t, value_objects.TierHigh, 1600, 4)
		fresh := makeTask(t, value_objects.TierHigh, 1500, 0)

		sel := NewFocusSelector(tuning.Default()).Select([]*task.Task{rated, fresh}, now)
		require.Equal(t, SelectionInitialRanking, sel.Kind)
		require.NotNil(t, sel.Prompt)
		require.Len(t, sel.Prompt.NewTasks, 1)
		assert.Equal(t, fresh.ID(), sel.Prompt.NewTasks[0].ID())
		assert.Equal(t, rated.ID(), sel.Prompt.TopAnchor.ID())
	})

	t.Run("new tasks in a lower tier do not block a higher tier", func(t *testing.T) {
		highRated := makeTask(t, value_objects.TierHigh, 1550, 6)
		lowFresh := makeTask(t, value_objects.TierLow, 1500, 0)

		sel := NewFocusSelector(tuning.Default()).Select([]*task.Task{highRated, lowFresh}, now)
		require.Equal(t, SelectionFocus, sel.Kind)
		assert.Equal(t, highRated.ID(), sel.Focus.Task.ID())
	})

	t.Run("selection is deterministic for a fixed candidate set", func(t *testing.T) {
		candidates := []*task.Task{
			makeTask(t, value_objects.TierMedium, 1500, 8),
			makeTask(t, value_objects.TierMedium, 1500, 8),
			makeTask(t, value_objects.TierMedium, 1500, 8),
		}

		selector := NewFocusSelector(tuning.Default())
		first := selector.Select(candidates, now)
		for i := 0; i < 5; i++ {
			again := selector.Select(candidates, now)
			require.Equal(t, first.Kind, again.Kind)
			require.Len(t, again.Tied, len(first.Tied))
			for j := range first.Tied {
				assert.Equal(t, first.Tied[j].Task.ID(), again.Tied[j].Task.ID())
			}
		}
	})
}

func TestDetectNewTasks(t *testing.T) {
	t.Run("no new tasks yields no prompt", func(t *testing.T) {
		tierTasks := []*task.Task{
			makeTask(t, value_objects.TierMedium, 1600, 3),
			makeTask(t, value_objects.TierMedium, 1400, 7),
		}
		assert.Nil(t, DetectNewTasks(value_objects.TierMedium, tierTasks))
	})

	t.Run("anchors are the rating extremes", func(t *testing.T) {
		top := makeTask(t, value_objects.TierMedium, 1700, 3)
		mid := makeTask(t, value_objects.TierMedium, 1500, 3)
		bottom := makeTask(t, value_objects.TierMedium, 1350, 3)
		fresh := makeTask(t, value_objects.TierMedium, 1500, 0)

		prompt := DetectNewTasks(value_objects.TierMedium, []*task.Task{mid, bottom, fresh, top})
		require.NotNil(t, prompt)
		assert.Equal(t, top.ID(), prompt.TopAnchor.ID())
		assert.Equal(t, bottom.ID(), prompt.BottomAnchor.ID())
	})

	t.Run("single rated task serves as both anchors", func(t *testing.T) {
		only := makeTask(t, value_objects.TierLow, 1800, 9)
		fresh := makeTask(t, value_objects.TierLow, 1500, 0)

		prompt := DetectNewTasks(value_objects.TierLow, []*task.Task{only, fresh})
		require.NotNil(t, prompt)
		assert.Equal(t, only.ID(), prompt.TopAnchor.ID())
		assert.Equal(t, only.ID(), prompt.BottomAnchor.ID())
		// The candidate list must not present the same anchor twice.
		assert.Len(t, prompt.Candidates(), 2)
	})

	t.Run("tier with only new tasks has no anchors", func(t *testing.T) {
		prompt := DetectNewTasks(value_objects.TierHigh, []*task.Task{
			makeTask(t, value_objects.TierHigh, 1500, 0),
			makeTask(t, value_objects.TierHigh, 1500, 0),
		})
		require.NotNil(t, prompt)
		assert.Nil(t, prompt.TopAnchor)
		assert.Nil(t, prompt.BottomAnchor)
	})
}
