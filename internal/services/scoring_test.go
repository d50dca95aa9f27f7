package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func priority(p int) *int {
	return &p
}

func TestTaskOrderScore(t *testing.T) {
	target := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority *int
		checkout time.Time
		want     int
	}{
		{
			name:     "top priority checking out tomorrow",
			priority: priority(1),
			checkout: target.AddDate(0, 0, 1),
			want:     100 + 9,
		},
		{
			name:     "lowest priority ten days out",
			priority: priority(5),
			checkout: target.AddDate(0, 0, 10),
			want:     20,
		},
		{
			name:     "unset priority uses the default base",
			priority: nil,
			checkout: target,
			want:     60 + 10,
		},
		{
			name:     "urgency never goes negative",
			priority: priority(3),
			checkout: target.AddDate(0, 0, 30),
			want:     60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &CleaningTask{Priority: tt.priority, CheckoutDate: tt.checkout}
			assert.Equal(t, tt.want, TaskOrderScore(task, target))
		})
	}
}

func TestOrderTasks_UrgentHighPriorityFirst(t *testing.T) {
	target := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	relaxed := &CleaningTask{Priority: priority(5), CheckoutDate: target.AddDate(0, 0, 10)}
	urgent := &CleaningTask{Priority: priority(1), CheckoutDate: target.AddDate(0, 0, 1)}
	relaxed.ID = uuid.New()
	urgent.ID = uuid.New()

	ordered := OrderTasks([]*CleaningTask{relaxed, urgent}, target)

	require.Len(t, ordered, 2)
	assert.Equal(t, urgent.ID, ordered[0].ID)
	assert.Equal(t, relaxed.ID, ordered[1].ID)
}

func TestOrderTasks_EqualScoresKeepInputOrder(t *testing.T) {
	target := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	first := &CleaningTask{CheckoutDate: target}
	second := &CleaningTask{CheckoutDate: target}
	first.ID = uuid.New()
	second.ID = uuid.New()

	ordered := OrderTasks([]*CleaningTask{first, second}, target)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, []uuid.UUID{ordered[0].ID, ordered[1].ID})
}

func newScoringStaff(opts ...func(*Staff)) *Staff {
	staff := &Staff{Name: "staff", SkillLevel: 1, IsActive: true}
	staff.ID = uuid.New()
	for _, opt := range opts {
		opt(staff)
	}
	return staff
}

func TestScoreCandidate_LoadFavoursIdleStaff(t *testing.T) {
	task := &CleaningTask{FacilityID: uuid.New(), ScheduledStartTime: "11:00", ScheduledEndTime: "13:00"}
	idle := newScoringStaff()
	busy := newScoringStaff()

	ctx := CandidateContext{
		Task:           task,
		LargeThreshold: 6,
		Load:           map[uuid.UUID]int{busy.ID: 5},
	}

	idleScore := ScoreCandidate(idle, ctx)
	busyScore := ScoreCandidate(busy, ctx)

	require.True(t, idleScore.Eligible)
	require.True(t, busyScore.Eligible)
	assert.Greater(t, idleScore.Score, busyScore.Score)
	assert.Equal(t, 20+30+15, idleScore.Score)
	assert.Equal(t, 20+0+15, busyScore.Score)
}

func TestLoadPoints(t *testing.T) {
	tests := []struct {
		existing int
		want     int
	}{
		{0, 30},
		{1, 20},
		{2, 20},
		{3, 10},
		{4, 10},
		{5, 0},
		{9, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, loadPoints(tt.existing), "existing=%d", tt.existing)
	}
}

func TestScoreCandidate_HardFilters(t *testing.T) {
	facilityID := uuid.New()
	task := &CleaningTask{FacilityID: facilityID, ScheduledStartTime: "11:00", ScheduledEndTime: "13:00"}

	tests := []struct {
		name      string
		staff     *Staff
		ctx       func(staff *Staff) CandidateContext
		rejection string
	}{
		{
			name:  "unavailable on the date",
			staff: newScoringStaff(),
			ctx: func(staff *Staff) CandidateContext {
				return CandidateContext{Task: task, Available: map[uuid.UUID]bool{staff.ID: false}}
			},
			rejection: "unavailable on date",
		},
		{
			name: "affinity excludes the facility",
			staff: newScoringStaff(func(s *Staff) {
				s.AvailableFacilities = []uuid.UUID{uuid.New()}
			}),
			ctx: func(staff *Staff) CandidateContext {
				return CandidateContext{Task: task}
			},
			rejection: "does not work at facility",
		},
		{
			name:  "not in the restricted group",
			staff: newScoringStaff(),
			ctx: func(staff *Staff) CandidateContext {
				return CandidateContext{Task: task, GroupMembers: map[uuid.UUID]bool{}}
			},
			rejection: "not a member of the restricted group",
		},
		{
			name:  "overlapping window when overlap checks are on",
			staff: newScoringStaff(),
			ctx: func(staff *Staff) CandidateContext {
				return CandidateContext{
					Task:         task,
					CheckOverlap: true,
					Busy:         map[uuid.UUID][]timeWindow{staff.ID: {{Start: "12:00", End: "14:00"}}},
				}
			},
			rejection: "already booked for an overlapping window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreCandidate(tt.staff, tt.ctx(tt.staff))
			assert.False(t, score.Eligible)
			assert.Equal(t, tt.rejection, score.Rejection)
		})
	}
}

func TestScoreCandidate_OverlapIgnoredWhenDisabled(t *testing.T) {
	task := &CleaningTask{FacilityID: uuid.New(), ScheduledStartTime: "11:00", ScheduledEndTime: "13:00"}
	staff := newScoringStaff()

	score := ScoreCandidate(staff, CandidateContext{
		Task: task,
		Busy: map[uuid.UUID][]timeWindow{staff.ID: {{Start: "12:00", End: "14:00"}}},
	})
	assert.True(t, score.Eligible)
}

func TestScoreCandidate_SoftScores(t *testing.T) {
	facility := &Facility{Name: "Villa", MaxGuests: 10}
	facility.ID = uuid.New()
	task := &CleaningTask{
		FacilityID:         facility.ID,
		Facility:           facility,
		ScheduledStartTime: "11:00",
		ScheduledEndTime:   "13:00",
	}

	senior := newScoringStaff(func(s *Staff) {
		s.SkillLevel = 5
		s.CanHandleLargeProperties = true
		s.AvailableFacilities = []uuid.UUID{facility.ID}
	})
	trainee := newScoringStaff()

	ctx := CandidateContext{
		Task:           task,
		LargeThreshold: 6,
		GroupMembers:   map[uuid.UUID]bool{senior.ID: true, trainee.ID: true},
	}

	// available + idle + affinity match + group + large capable + senior
	assert.Equal(t, 20+30+25+40+15+10, ScoreCandidate(senior, ctx).Score)
	// available + idle + any facility + group + large incapable
	assert.Equal(t, 20+30+15+40-10, ScoreCandidate(trainee, ctx).Score)
}

func TestPickBest(t *testing.T) {
	task := &CleaningTask{FacilityID: uuid.New(), ScheduledStartTime: "11:00", ScheduledEndTime: "13:00"}

	t.Run("highest score wins", func(t *testing.T) {
		regular := newScoringStaff(func(s *Staff) { s.SkillLevel = 3 })
		trainee := newScoringStaff()

		best, ok := PickBest([]*Staff{trainee, regular}, CandidateContext{Task: task})
		require.True(t, ok)
		assert.Equal(t, regular.ID, best.Staff.ID)
	})

	t.Run("ties resolve to the lowest staff id", func(t *testing.T) {
		a := newScoringStaff()
		b := newScoringStaff()
		lowest := a
		if b.ID.String() < a.ID.String() {
			lowest = b
		}

		best, ok := PickBest([]*Staff{a, b}, CandidateContext{Task: task})
		require.True(t, ok)
		assert.Equal(t, lowest.ID, best.Staff.ID)

		best, ok = PickBest([]*Staff{b, a}, CandidateContext{Task: task})
		require.True(t, ok)
		assert.Equal(t, lowest.ID, best.Staff.ID)
	})

	t.Run("nobody eligible", func(t *testing.T) {
		staff := newScoringStaff()
		_, ok := PickBest([]*Staff{staff}, CandidateContext{
			Task:      task,
			Available: map[uuid.UUID]bool{staff.ID: false},
		})
		assert.False(t, ok)
	})
}
