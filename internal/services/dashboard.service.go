package services

import (
	"context"
	"sort"
	"time"

	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type DashboardService struct {
	taskRepo  repositories.TaskRepository
	shiftRepo repositories.ShiftRepository
	db        *gorm.DB
	log       logger.Logger
}

func NewDashboardService(repos repositories.Repository, db *gorm.DB) *DashboardService {
	return &DashboardService{
		taskRepo:  repos.Task,
		shiftRepo: repos.Shift,
		db:        db,
		log:       logger.New("dashboardService"),
	}
}

func (s *DashboardService) Stats(ctx context.Context, date time.Time) (*types.DashboardStats, error) {
	date = DateOf(date)

	counts, err := s.taskRepo.CountByStatus(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	activeStaff, err := s.shiftRepo.CountActiveStaffForDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	avg, err := s.taskRepo.AverageCompletionMinutes(ctx, s.db, date)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &types.DashboardStats{
		Date:                 FormatDate(date),
		TotalTasks:           total,
		UnassignedTasks:      counts[TaskStatusUnassigned],
		InProgressTasks:      counts[TaskStatusInProgress],
		CompletedTasks:       counts[TaskStatusCompleted] + counts[TaskStatusVerified],
		NeedsRevisionTasks:   counts[TaskStatusNeedsRevision],
		ActiveStaff:          activeStaff,
		AvgCompletionMinutes: avg,
	}, nil
}

// StaffPerformance totals completed staff shifts in the inclusive range,
// ordered by earnings.
func (s *DashboardService) StaffPerformance(
	ctx context.Context,
	from, to time.Time,
) ([]types.StaffPerformance, error) {
	log := s.log.TraceFromContext(ctx).Function("StaffPerformance")

	if DateOf(from).After(DateOf(to)) {
		return nil, log.ErrorWithType(
			types.ErrValidation,
			"from must not be after to",
			"from", FormatDate(from),
			"to", FormatDate(to),
		)
	}

	shifts, err := s.shiftRepo.GetCompletedBetween(ctx, s.db, from, to)
	if err != nil {
		return nil, err
	}

	type tally struct {
		perf    types.StaffPerformance
		ratings int
		sum     int
	}
	byStaff := make(map[uuid.UUID]*tally)
	for _, shift := range shifts {
		if shift.StaffID == nil {
			continue
		}

		entry, ok := byStaff[*shift.StaffID]
		if !ok {
			entry = &tally{perf: types.StaffPerformance{
				StaffID:       *shift.StaffID,
				TotalEarnings: decimal.Zero,
			}}
			if shift.Staff != nil {
				entry.perf.StaffName = shift.Staff.Name
			}
			byStaff[*shift.StaffID] = entry
		}

		entry.perf.CompletedTasks++
		entry.perf.TotalHours += shift.WorkedHours()
		entry.perf.TotalEarnings = entry.perf.TotalEarnings.Add(shift.TotalPayment)
		if shift.PerformanceRating != nil {
			entry.ratings++
			entry.sum += *shift.PerformanceRating
		}
	}

	results := make([]types.StaffPerformance, 0, len(byStaff))
	for _, entry := range byStaff {
		if entry.ratings > 0 {
			avg := float64(entry.sum) / float64(entry.ratings)
			entry.perf.AverageRating = &avg
		}
		entry.perf.TotalHours = decimal.NewFromFloat(entry.perf.TotalHours).Round(2).InexactFloat64()
		results = append(results, entry.perf)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].TotalEarnings.Equal(results[j].TotalEarnings) {
			return results[i].TotalEarnings.GreaterThan(results[j].TotalEarnings)
		}
		return results[i].StaffID.String() < results[j].StaffID.String()
	})
	return results, nil
}
