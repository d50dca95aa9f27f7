package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	. "cleanops/internal/models"
)

const (
	scoreAvailable          = 20
	scoreAffinityMatch      = 25
	scoreAffinityAny        = 15
	scoreGroupMember        = 40
	scoreLargeCapable       = 15
	scoreLargeIncapable     = -10
	scoreSeniorTier         = 10
	scoreRegularTier        = 5
	defaultTaskPriorityBase = 60
	maxUrgency              = 10
)

// TaskOrderScore ranks a task for an assignment pass: higher priority and a
// closer checkout come first.
func TaskOrderScore(task *CleaningTask, target time.Time) int {
	base := defaultTaskPriorityBase
	if task.Priority != nil {
		base = (6 - *task.Priority) * 20
	}

	urgency := maxUrgency - DaysBetween(target, task.CheckoutDate)
	if urgency < 0 {
		urgency = 0
	}
	return base + urgency
}

// OrderTasks sorts by TaskOrderScore, highest first. Equal scores keep their
// input order.
func OrderTasks(tasks []*CleaningTask, target time.Time) []*CleaningTask {
	ordered := slices.Clone(tasks)
	slices.SortStableFunc(ordered, func(a, b *CleaningTask) int {
		return cmp.Compare(TaskOrderScore(b, target), TaskOrderScore(a, target))
	})
	return ordered
}

func loadPoints(existing int) int {
	switch {
	case existing <= 0:
		return 30
	case existing <= 2:
		return 20
	case existing <= 4:
		return 10
	default:
		return 0
	}
}

type timeWindow struct {
	Start ClockTime
	End   ClockTime
}

// CandidateContext is everything the scorer knows about one task and the
// batch so far.
type CandidateContext struct {
	Task           *CleaningTask
	LargeThreshold int

	// Available is keyed by staff id; a missing entry means available.
	Available map[uuid.UUID]bool

	// Load counts active shifts per staff on the target date, including
	// those made earlier in the same batch.
	Load map[uuid.UUID]int

	// GroupMembers is nil unless the task is restricted to a group.
	GroupMembers map[uuid.UUID]bool

	// Busy holds booked windows per staff; only consulted when CheckOverlap
	// is set.
	Busy         map[uuid.UUID][]timeWindow
	CheckOverlap bool
}

type CandidateScore struct {
	Staff     *Staff
	Score     int
	Reasons   []string
	Eligible  bool
	Rejection string
}

func reject(staff *Staff, reason string) CandidateScore {
	return CandidateScore{Staff: staff, Rejection: reason}
}

// ScoreCandidate applies the hard filters and then adds up the soft scores
// for one staff member.
func ScoreCandidate(staff *Staff, c CandidateContext) CandidateScore {
	task := c.Task

	if available, ok := c.Available[staff.ID]; ok && !available {
		return reject(staff, "unavailable on date")
	}

	facilities := staff.Facilities()
	if !facilities.Allows(task.FacilityID) {
		return reject(staff, "does not work at facility")
	}

	if c.GroupMembers != nil && !c.GroupMembers[staff.ID] {
		return reject(staff, "not a member of the restricted group")
	}

	if c.CheckOverlap {
		for _, window := range c.Busy[staff.ID] {
			if WindowsOverlap(task.ScheduledStartTime, task.ScheduledEndTime, window.Start, window.End) {
				return reject(staff, "already booked for an overlapping window")
			}
		}
	}

	result := CandidateScore{Staff: staff, Eligible: true}
	add := func(points int, reason string) {
		result.Score += points
		result.Reasons = append(result.Reasons, reason)
	}

	add(scoreAvailable, "available on date")

	load := c.Load[staff.ID]
	if load == 0 {
		add(loadPoints(load), "no other shifts on date")
	} else {
		add(loadPoints(load), fmt.Sprintf("%d other shifts on date", load))
	}

	if facilities.IsEmpty() {
		add(scoreAffinityAny, "works at any facility")
	} else {
		add(scoreAffinityMatch, "works at this facility")
	}

	if c.GroupMembers != nil {
		add(scoreGroupMember, "member of the restricted group")
	}

	if task.Facility != nil && task.Facility.IsLarge(c.LargeThreshold) {
		if staff.CanHandleLargeProperties {
			add(scoreLargeCapable, "handles large properties")
		} else {
			add(scoreLargeIncapable, "not suited to large properties")
		}
	}

	switch staff.SkillTier() {
	case SkillTierSenior:
		add(scoreSeniorTier, "senior skill tier")
	case SkillTierRegular:
		add(scoreRegularTier, "regular skill tier")
	}

	return result
}

// PickBest scores every candidate and returns the highest scoring eligible
// one. Candidates are compared in staff id order and the first maximum wins.
func PickBest(staff []*Staff, c CandidateContext) (*CandidateScore, bool) {
	ordered := slices.Clone(staff)
	slices.SortFunc(ordered, func(a, b *Staff) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	var best *CandidateScore
	for _, member := range ordered {
		score := ScoreCandidate(member, c)
		if !score.Eligible {
			continue
		}
		if best == nil || score.Score > best.Score {
			best = &score
		}
	}
	return best, best != nil
}
