package services

import (
	"errors"
	"math/rand"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
)

var (
	// ErrNoCandidates is returned when an interpolation request carries
	// no new tasks.
	ErrNoCandidates = errors.New("no new tasks to rank")
	// ErrAnchorOrder is returned when the committed order places a
	// lower-rated anchor above a higher-rated one. Anchors keep their
	// ratings, so such an order cannot be honored.
	ErrAnchorOrder = errors.New("ranked tasks must keep their relative order")
)

// RankingPrompt describes the one-time manual ranking step for a tier:
// the never-compared tasks plus up to two anchors from the existing
// ranking.
type RankingPrompt struct {
	Tier     value_objects.Tier
	NewTasks []*task.Task
	// TopAnchor is the highest-rated existing task in the tier,
	// BottomAnchor the lowest. When only one rated task exists both
	// point at it and a single anchor is presented.
	TopAnchor    *task.Task
	BottomAnchor *task.Task
}

// Candidates returns the tasks to present for manual ordering. Anchors
// are included so the user slots new work relative to known points.
func (p *RankingPrompt) Candidates() []*task.Task {
	out := make([]*task.Task, 0, len(p.NewTasks)+2)
	out = append(out, p.NewTasks...)
	if p.TopAnchor != nil {
		out = append(out, p.TopAnchor)
	}
	if p.BottomAnchor != nil && p.BottomAnchor != p.TopAnchor {
		out = append(out, p.BottomAnchor)
	}
	return out
}

// ShuffledCandidates returns the candidates in randomized order to
// avoid anchoring bias during manual ranking.
func (p *RankingPrompt) ShuffledCandidates() []*task.Task {
	out := p.Candidates()
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// IsAnchor reports whether the given id belongs to one of the prompt's
// anchors.
func (p *RankingPrompt) IsAnchor(id uuid.UUID) bool {
	if p.TopAnchor != nil && p.TopAnchor.ID() == id {
		return true
	}
	if p.BottomAnchor != nil && p.BottomAnchor.ID() == id {
		return true
	}
	return false
}

// DetectNewTasks inspects one tier's tasks and builds a ranking prompt
// when any of them has never been compared. Returns nil when the tier
// needs no initial ranking.
func DetectNewTasks(tier value_objects.Tier, tierTasks []*task.Task) *RankingPrompt {
	prompt := &RankingPrompt{Tier: tier}

	for _, t := range tierTasks {
		if t.IsNew() {
			prompt.NewTasks = append(prompt.NewTasks, t)
			continue
		}
		if prompt.TopAnchor == nil || t.Rating() > prompt.TopAnchor.Rating() {
			prompt.TopAnchor = t
		}
		if prompt.BottomAnchor == nil || t.Rating() < prompt.BottomAnchor.Rating() {
			prompt.BottomAnchor = t
		}
	}

	if len(prompt.NewTasks) == 0 {
		return nil
	}
	return prompt
}

// RankedCandidate is one entry of the user's committed order, highest
// desired priority first. Anchors carry their existing rating and keep
// it; new tasks receive an interpolated one.
type RankedCandidate struct {
	TaskID uuid.UUID
	Anchor bool
	Rating float64 // Only meaningful when Anchor is true
}

// InterpolateRatings assigns a rating to every non-anchor candidate by
// linear interpolation of list position between the surrounding anchor
// ratings. Segments beyond the outermost anchors (and tiers with no
// anchors at all) interpolate into a band of cfg.InitialSpread rating
// points around the nearest known value. The returned ratings strictly
// follow the user's order within each segment.
func InterpolateRatings(ordered []RankedCandidate, cfg tuning.Tuning) (map[uuid.UUID]float64, error) {
	hasNew := false
	for _, c := range ordered {
		if !c.Anchor {
			hasNew = true
			break
		}
	}
	if !hasNew {
		return nil, ErrNoCandidates
	}

	ratings := make(map[uuid.UUID]float64)

	// Anchor positions split the sequence into independently
	// interpolated segments.
	anchorIdx := make([]int, 0, 2)
	for i, c := range ordered {
		if c.Anchor {
			anchorIdx = append(anchorIdx, i)
		}
	}

	// Anchors keep their ratings, so the committed order must list them
	// rating-descending or the interpolated segments would invert it.
	for k := 0; k+1 < len(anchorIdx); k++ {
		if ordered[anchorIdx[k]].Rating < ordered[anchorIdx[k+1]].Rating {
			return nil, ErrAnchorOrder
		}
	}

	if len(anchorIdx) == 0 {
		fill(ratings, ordered, cfg.DefaultRating+cfg.InitialSpread, cfg.DefaultRating-cfg.InitialSpread)
		return ratings, nil
	}

	first, last := anchorIdx[0], anchorIdx[len(anchorIdx)-1]

	// Above the top anchor: a spread-wide band over it.
	if first > 0 {
		upper := ordered[first].Rating + cfg.InitialSpread
		fill(ratings, ordered[:first], upper, ordered[first].Rating)
	}

	// Between consecutive anchors: strictly inside the closed interval.
	for k := 0; k+1 < len(anchorIdx); k++ {
		lo, hi := anchorIdx[k], anchorIdx[k+1]
		if hi-lo > 1 {
			fill(ratings, ordered[lo+1:hi], ordered[lo].Rating, ordered[hi].Rating)
		}
	}

	// Below the bottom anchor: a spread-wide band under it.
	if last < len(ordered)-1 {
		lower := ordered[last].Rating - cfg.InitialSpread
		fill(ratings, ordered[last+1:], ordered[last].Rating, lower)
	}

	return ratings, nil
}

// fill interpolates the non-anchor entries of segment evenly between
// upper and lower, exclusive of both bounds.
func fill(ratings map[uuid.UUID]float64, segment []RankedCandidate, upper, lower float64) {
	n := len(segment)
	step := (upper - lower) / float64(n+1)
	for i, c := range segment {
		if c.Anchor {
			continue
		}
		ratings[c.TaskID] = upper - step*float64(i+1)
	}
}
