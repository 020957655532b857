package services

import (
	"testing"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate() RankedCandidate {
	return RankedCandidate{TaskID: uuid.New()}
}

func anchorCandidate(rating float64) RankedCandidate {
	return RankedCandidate{TaskID: uuid.New(), Anchor: true, Rating: rating}
}

func TestInterpolateRatings(t *testing.T) {
	cfg := tuning.Default()

	t.Run("only anchors is an error", func(t *testing.T) {
		_, err := InterpolateRatings([]RankedCandidate{anchorCandidate(1600)}, cfg)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("empty order is an error", func(t *testing.T) {
		_, err := InterpolateRatings(nil, cfg)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("no anchors spreads around the default rating", func(t *testing.T) {
		ordered := []RankedCandidate{newCandidate(), newCandidate(), newCandidate()}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		require.Len(t, ratings, 3)

		upper := cfg.DefaultRating + cfg.InitialSpread
		lower := cfg.DefaultRating - cfg.InitialSpread
		prev := upper
		for _, c := range ordered {
			got := ratings[c.TaskID]
			assert.Less(t, got, prev)
			assert.Greater(t, got, lower)
			prev = got
		}
		// The middle of three spread entries lands on the default.
		assert.InDelta(t, cfg.DefaultRating, ratings[ordered[1].TaskID], 1e-9)
	})

	t.Run("all new ranked below a single anchor stay under it", func(t *testing.T) {
		anchor := anchorCandidate(1800)
		ordered := []RankedCandidate{anchor, newCandidate(), newCandidate(), newCandidate()}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		require.Len(t, ratings, 3)

		prev := anchor.Rating
		for _, c := range ordered[1:] {
			got := ratings[c.TaskID]
			assert.Less(t, got, prev)
			assert.Greater(t, got, anchor.Rating-cfg.InitialSpread)
			prev = got
		}
		_, present := ratings[anchor.TaskID]
		assert.False(t, present, "anchors keep their existing rating")
	})

	t.Run("new ranked above the top anchor exceed it", func(t *testing.T) {
		anchor := anchorCandidate(1650)
		first := newCandidate()
		ordered := []RankedCandidate{first, anchor}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)

		got := ratings[first.TaskID]
		assert.Greater(t, got, anchor.Rating)
		assert.Less(t, got, anchor.Rating+cfg.InitialSpread)
	})

	t.Run("between two anchors ratings stay strictly inside", func(t *testing.T) {
		top := anchorCandidate(1700)
		bottom := anchorCandidate(1300)
		mid1 := newCandidate()
		mid2 := newCandidate()
		ordered := []RankedCandidate{top, mid1, mid2, bottom}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		require.Len(t, ratings, 2)

		r1, r2 := ratings[mid1.TaskID], ratings[mid2.TaskID]
		assert.Less(t, r1, top.Rating)
		assert.Greater(t, r1, r2)
		assert.Greater(t, r2, bottom.Rating)
	})

	t.Run("two between anchors split the interval evenly", func(t *testing.T) {
		top := anchorCandidate(1600)
		bottom := anchorCandidate(1300)
		mid1 := newCandidate()
		mid2 := newCandidate()
		ordered := []RankedCandidate{top, mid1, mid2, bottom}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1500.0, ratings[mid1.TaskID], 1e-9)
		assert.InDelta(t, 1400.0, ratings[mid2.TaskID], 1e-9)
	})

	t.Run("segments above between and below all resolve", func(t *testing.T) {
		top := anchorCandidate(1650)
		bottom := anchorCandidate(1450)
		above := newCandidate()
		between := newCandidate()
		below := newCandidate()
		ordered := []RankedCandidate{above, top, between, bottom, below}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		require.Len(t, ratings, 3)

		assert.Greater(t, ratings[above.TaskID], top.Rating)
		assert.Less(t, ratings[between.TaskID], top.Rating)
		assert.Greater(t, ratings[between.TaskID], bottom.Rating)
		assert.Less(t, ratings[below.TaskID], bottom.Rating)
	})

	t.Run("anchors listed rating-ascending are rejected", func(t *testing.T) {
		low := anchorCandidate(1300)
		high := anchorCandidate(1700)
		ordered := []RankedCandidate{low, newCandidate(), high, newCandidate()}

		ratings, err := InterpolateRatings(ordered, cfg)
		assert.ErrorIs(t, err, ErrAnchorOrder)
		assert.Nil(t, ratings)
	})

	t.Run("anchors with equal ratings are accepted", func(t *testing.T) {
		top := anchorCandidate(1500)
		bottom := anchorCandidate(1500)
		mid := newCandidate()
		ordered := []RankedCandidate{top, mid, bottom}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1500.0, ratings[mid.TaskID], 1e-9)
	})

	t.Run("ratings strictly follow the committed order", func(t *testing.T) {
		ordered := []RankedCandidate{
			newCandidate(),
			anchorCandidate(1620),
			newCandidate(),
			newCandidate(),
			anchorCandidate(1480),
			newCandidate(),
		}

		ratings, err := InterpolateRatings(ordered, cfg)
		require.NoError(t, err)

		prev := ratings[ordered[0].TaskID]
		for _, c := range ordered[1:] {
			var current float64
			if c.Anchor {
				current = c.Rating
			} else {
				current = ratings[c.TaskID]
			}
			assert.Less(t, current, prev)
			prev = current
		}
	})
}
