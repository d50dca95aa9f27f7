package root

import (
	"context"
	"errors"
	"strings"

	"cleanops/internal/types"
	"cleanops/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCreateTasksCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "create-tasks",
		Short: "Create tasks for every reservation checking out on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := utils.RequireDateParam("date", date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := a.Services.Task.AutoCreateTasks(ctx, day)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Checkout date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newAssignCmd() *cobra.Command {
	var date string
	var taskList string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Auto-assign tasks to available staff",
		Long:  "Auto-assign the listed tasks on --date. Without --tasks every unassigned task scheduled on that date is considered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := utils.RequireDateParam("date", date)
			if err != nil {
				return err
			}
			taskIDs, err := parseTaskIDs(taskList)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			var result *types.AutoAssignResult
			if len(taskIDs) == 0 {
				result, err = a.Services.Assignment.AutoAssignForDate(ctx, day)
			} else {
				result, err = a.Services.Assignment.AutoAssign(ctx, types.AutoAssignRequest{
					TaskIDs: taskIDs,
					Date:    date,
				})
			}
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Assignment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&taskList, "tasks", "", "Comma separated task ids")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func parseTaskIDs(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, errors.New("invalid task id: " + part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
