package task

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskArchived        = errors.New("task is archived")

	// Comparison validation errors. These form a closed set; callers
	// dispatch on them directly instead of probing error types.
	ErrCrossTierComparison = errors.New("tasks in different tiers cannot be compared")
	ErrMissingIdentifier   = errors.New("task has no persisted identifier")
	ErrSelfComparison      = errors.New("a task cannot be compared with itself")
	ErrAlreadyRanked       = errors.New("task has already been ranked")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// ParseStatus creates a Status from a string.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	case "archived":
		return StatusArchived, nil
	default:
		return StatusPending, errors.New("invalid status value")
	}
}

// Task is a unit of work carrying the rating state the ranking engine
// maintains. The rating only changes through ApplyComparison,
// ApplyInitialRank, and ResetRating; persistence rehydration aside, no
// other path mutates it.
type Task struct {
	domain.BaseAggregateRoot
	userID      uuid.UUID
	title       string
	status      Status
	tier        value_objects.Tier
	dueDate     *time.Time
	completedAt *time.Time

	rating          float64
	comparisonCount int

	// Recurring-task family state. A family mirrors one rating across
	// occurrences through the parent's shared rating.
	isRecurringParent  bool
	recurrenceParentID *uuid.UUID
	shareRating        bool
	sharedRating       *float64

	// Superseded exponential-decay scheme, kept for data compatibility.
	// Read and persisted but never recomputed.
	legacyAdjustment float64
	legacyLossCount  int
}

// NewTask creates a new pending task in the given tier with the default
// rating anchor and no comparisons.
func NewTask(userID uuid.UUID, title string, tier value_objects.Tier, defaultRating float64) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !tier.IsValid() {
		return nil, value_objects.ErrInvalidTier
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		status:            StatusPending,
		tier:              tier,
		rating:            defaultRating,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title, t.tier.String()))

	return t, nil
}

// Getters

func (t *Task) UserID() uuid.UUID              { return t.userID }
func (t *Task) Title() string                  { return t.title }
func (t *Task) Status() Status                 { return t.status }
func (t *Task) Tier() value_objects.Tier       { return t.tier }
func (t *Task) DueDate() *time.Time            { return t.dueDate }
func (t *Task) CompletedAt() *time.Time        { return t.completedAt }
func (t *Task) Rating() float64                { return t.rating }
func (t *Task) ComparisonCount() int           { return t.comparisonCount }
func (t *Task) IsRecurringParent() bool        { return t.isRecurringParent }
func (t *Task) RecurrenceParentID() *uuid.UUID { return t.recurrenceParentID }
func (t *Task) SharesRating() bool             { return t.shareRating }
func (t *Task) SharedRating() *float64         { return t.sharedRating }
func (t *Task) LegacyAdjustment() float64      { return t.legacyAdjustment }
func (t *Task) LegacyLossCount() int           { return t.legacyLossCount }
func (t *Task) IsCompleted() bool              { return t.status == StatusCompleted }
func (t *Task) IsArchived() bool               { return t.status == StatusArchived }

// IsNew reports whether the task has never participated in a comparison
// and still needs initial ranking.
func (t *Task) IsNew() bool { return t.comparisonCount == 0 }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetTier moves the task to another tier. The rating carries over; the
// task simply starts competing against its new tier.
func (t *Task) SetTier(tier value_objects.Tier) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if !tier.IsValid() {
		return value_objects.ErrInvalidTier
	}
	t.tier = tier
	t.Touch()
	return nil
}

// SetDueDate updates the due date.
func (t *Task) SetDueDate(dueDate *time.Time) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.dueDate = dueDate
	t.Touch()
	return nil
}

// LinkRecurrence attaches the task to a recurring family parent.
// When share is true, every comparison involving this task overwrites
// the parent's shared rating.
func (t *Task) LinkRecurrence(parentID uuid.UUID, share bool) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.recurrenceParentID = &parentID
	t.shareRating = share
	t.Touch()
	return nil
}

// MarkRecurringParent flags the task as the parent of a recurring family.
func (t *Task) MarkRecurringParent() {
	t.isRecurringParent = true
	t.Touch()
}

// SetSharedRating overwrites the family's externally-visible rating.
// Called on parents when a sharing family member is compared.
func (t *Task) SetSharedRating(rating float64) {
	t.sharedRating = &rating
	t.Touch()
}

// ValidateComparableWith checks the invariants for comparing t against
// other. It never mutates either task.
func (t *Task) ValidateComparableWith(other *Task) error {
	if t.ID() == uuid.Nil || other.ID() == uuid.Nil {
		return ErrMissingIdentifier
	}
	if t.ID() == other.ID() {
		return ErrSelfComparison
	}
	if t.tier != other.tier {
		return ErrCrossTierComparison
	}
	return nil
}

// ApplyComparison records the outcome of one pairwise comparison: the
// new rating and a comparison-count increment. delta is the magnitude of
// this task's rating change.
func (t *Task) ApplyComparison(newRating float64, opponentID uuid.UUID, won bool, delta float64) {
	t.rating = newRating
	t.comparisonCount++
	t.Touch()
	t.AddDomainEvent(NewTaskCompared(t.ID(), opponentID, won, delta))
}

// ApplyInitialRank assigns an interpolated rating to a never-compared
// task. The comparison count is set to 1 so the task is not offered for
// initial ranking again, even though no real comparison happened.
func (t *Task) ApplyInitialRank(rating float64) error {
	if !t.IsNew() {
		return ErrAlreadyRanked
	}
	t.rating = rating
	t.comparisonCount = 1
	t.Touch()
	t.AddDomainEvent(NewTaskRanked(t.ID(), rating))
	return nil
}

// ResetRating restores the default rating state and clears the legacy
// decay fields. Returns true when anything actually changed.
func (t *Task) ResetRating(defaultRating float64) bool {
	changed := t.rating != defaultRating ||
		t.comparisonCount != 0 ||
		t.legacyAdjustment != 0 ||
		t.legacyLossCount != 0 ||
		t.sharedRating != nil
	if !changed {
		return false
	}

	t.rating = defaultRating
	t.comparisonCount = 0
	t.legacyAdjustment = 0
	t.legacyLossCount = 0
	t.sharedRating = nil
	t.Touch()
	t.AddDomainEvent(NewTaskRatingReset(t.ID(), defaultRating))
	return true
}

// Complete marks the task as completed.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}

	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID()))

	return nil
}

// Archive marks the task as archived.
func (t *Task) Archive() error {
	if t.IsArchived() {
		return nil // Idempotent
	}

	t.status = StatusArchived
	t.Touch()

	t.AddDomainEvent(NewTaskArchived(t.ID()))

	return nil
}

// RehydrateParams carries persisted task state.
type RehydrateParams struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Status             Status
	Tier               value_objects.Tier
	DueDate            *time.Time
	CompletedAt        *time.Time
	Rating             float64
	ComparisonCount    int
	IsRecurringParent  bool
	RecurrenceParentID *uuid.UUID
	ShareRating        bool
	SharedRating       *float64
	LegacyAdjustment   float64
	LegacyLossCount    int
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Rehydrate recreates a task from persisted state without emitting events.
func Rehydrate(p RehydrateParams) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(p.ID, p.CreatedAt, p.UpdatedAt),
			p.Version,
		),
		userID:             p.UserID,
		title:              p.Title,
		status:             p.Status,
		tier:               p.Tier,
		dueDate:            p.DueDate,
		completedAt:        p.CompletedAt,
		rating:             p.Rating,
		comparisonCount:    p.ComparisonCount,
		isRecurringParent:  p.IsRecurringParent,
		recurrenceParentID: p.RecurrenceParentID,
		shareRating:        p.ShareRating,
		sharedRating:       p.SharedRating,
		legacyAdjustment:   p.LegacyAdjustment,
		legacyLossCount:    p.LegacyLossCount,
	}
}
