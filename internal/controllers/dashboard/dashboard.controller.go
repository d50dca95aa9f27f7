package dashboardController

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

type DashboardController struct {
	dashboardService *services.DashboardService
	log              logger.Logger
}

type DashboardControllerInterface interface {
	Stats(ctx context.Context, date string) (*types.DashboardStats, error)
	StaffPerformance(ctx context.Context, from, to string) ([]types.StaffPerformance, error)
}

func New(services services.Service) DashboardControllerInterface {
	return &DashboardController{
		dashboardService: services.Dashboard,
		log:              logger.New("dashboardController"),
	}
}

func (c *DashboardController) Stats(ctx context.Context, date string) (*types.DashboardStats, error) {
	day, err := utils.RequireDateParam("date", date)
	if err != nil {
		return nil, err
	}
	return c.dashboardService.Stats(ctx, day)
}

func (c *DashboardController) StaffPerformance(
	ctx context.Context,
	from, to string,
) ([]types.StaffPerformance, error) {
	start, end, err := utils.ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return c.dashboardService.StaffPerformance(ctx, start, end)
}
