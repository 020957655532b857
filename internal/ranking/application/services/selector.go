package services

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
)

// SelectionKind tells the caller what the selector decided.
type SelectionKind int

const (
	// SelectionNone means the candidate set was empty.
	SelectionNone SelectionKind = iota
	// SelectionFocus means a single task cleared the rest by more than
	// the tie epsilon.
	SelectionFocus
	// SelectionTie means the top tasks are statistically tied and need
	// a human comparison.
	SelectionTie
	// SelectionInitialRanking means the tier holds never-compared tasks
	// that must be ranked before selection can run.
	SelectionInitialRanking
)

// ScoredTask pairs a task with its computed importance.
type ScoredTask struct {
	Task       *task.Task
	Importance float64
}

// Selection is the result of one focus-selection pass.
type Selection struct {
	Kind SelectionKind
	Tier value_objects.Tier

	// Focus is set for SelectionFocus.
	Focus *ScoredTask
	// Tied is set for SelectionTie, importance-descending.
	Tied []ScoredTask
	// Prompt is set for SelectionInitialRanking.
	Prompt *RankingPrompt
}

// FocusSelector picks the single most important task from a candidate
// set, or reports a tied group. Given fixed ratings, tiers, and
// candidates the result is fully deterministic.
type FocusSelector struct {
	config tuning.Tuning
	scorer *ImportanceScorer
}

// NewFocusSelector creates a selector with the given parameters.
func NewFocusSelector(cfg tuning.Tuning) *FocusSelector {
	return &FocusSelector{
		config: cfg,
		scorer: NewImportanceScorer(cfg),
	}
}

// Select walks tiers from High down and decides within the first tier
// that has candidates. A tier with never-compared tasks yields an
// initial-ranking prompt instead of a selection.
func (s *FocusSelector) Select(candidates []*task.Task, now time.Time) Selection {
	byTier := make(map[value_objects.Tier][]*task.Task)
	for _, t := range candidates {
		byTier[t.Tier()] = append(byTier[t.Tier()], t)
	}

	for _, tier := range value_objects.TiersDescending() {
		tierTasks := byTier[tier]
		if len(tierTasks) == 0 {
			continue
		}

		if prompt := DetectNewTasks(tier, tierTasks); prompt != nil {
			return Selection{
				Kind:   SelectionInitialRanking,
				Tier:   tier,
				Prompt: prompt,
			}
		}

		return s.selectWithinTier(tier, tierTasks, now)
	}

	return Selection{Kind: SelectionNone}
}

func (s *FocusSelector) selectWithinTier(tier value_objects.Tier, tierTasks []*task.Task, now time.Time) Selection {
	scored := make([]ScoredTask, 0, len(tierTasks))
	for _, t := range tierTasks {
		scored = append(scored, ScoredTask{
			Task:       t,
			Importance: s.scorer.Score(t, now),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Importance != scored[j].Importance {
			return scored[i].Importance > scored[j].Importance
		}
		// Stable order for identical scores
		return scored[i].Task.ID().String() < scored[j].Task.ID().String()
	})

	top := scored[0]
	tied := []ScoredTask{top}
	for _, st := range scored[1:] {
		if top.Importance-st.Importance < s.config.TieEpsilon {
			tied = append(tied, st)
		} else {
			break
		}
	}

	if len(tied) > 1 {
		return Selection{Kind: SelectionTie, Tier: tier, Tied: tied}
	}

	return Selection{Kind: SelectionFocus, Tier: tier, Focus: &top}
}
