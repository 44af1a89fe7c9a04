package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var schedulerCmd = &cobra.Command{
	Use:     "scheduler",
	Aliases: []string{"tasks"},
	Short:   "Inspect and run background tasks",
	Long: `The scheduler runs inside "vetdesk serve". These commands show each task's
state and let you run one immediately, for example after changing stock levels.`,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List background tasks",
	Args:  cobra.NoArgs,
	RunE:  runSchedulerList,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run <task-id>",
	Short: "Run a task now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

var schedulerHistoryCmd = &cobra.Command{
	Use:   "history <task-id>",
	Short: "Show recent runs of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerHistory,
}

var historyLimit int

func init() {
	schedulerRunCmd.Long = "Run a task immediately, even when it is disabled. Known tasks: " +
		strings.Join(domain.TaskIDs(), ", ") + "."
	schedulerHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	schedulerCmd.AddCommand(schedulerListCmd, schedulerRunCmd, schedulerHistoryCmd)
	rootCmd.AddCommand(schedulerCmd)
}

func runSchedulerList(cmd *cobra.Command, _ []string) error {
	if svc.Scheduler == nil {
		return errNotConfigured("scheduler")
	}
	tasks, err := svc.Scheduler.Tasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, tasks)
	}

	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		rows = append(rows, []string{
			t.ID, t.Name, yesNo(t.Enabled), t.Interval.String(),
			stamp(t.LastRun), stamp(t.NextRun), t.LastError,
		})
	}
	printTable(cmd, "No tasks.", []string{"ID", "NAME", "ENABLED", "EVERY", "LAST RUN", "NEXT RUN", "LAST ERROR"}, rows)
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	if svc.Scheduler == nil {
		return errNotConfigured("scheduler")
	}
	res, err := svc.Scheduler.RunNow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	if jsonFlag {
		return printJSON(cmd, res)
	}
	if !res.Success {
		return fmt.Errorf("%s failed after %s: %s", args[0], res.Duration().Round(time.Millisecond), res.Error)
	}
	cmd.Printf("%s finished in %s (%d items)\n", args[0], res.Duration().Round(time.Millisecond), res.ItemsProcessed)
	return nil
}

func runSchedulerHistory(cmd *cobra.Command, args []string) error {
	if svc.Scheduler == nil {
		return errNotConfigured("scheduler")
	}
	results, err := svc.Scheduler.History(cmd.Context(), args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, results)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		rows = append(rows, []string{
			stamp(r.StartedAt), r.Duration().Round(time.Millisecond).String(),
			status, strconv.Itoa(r.ItemsProcessed), r.Error,
		})
	}
	printTable(cmd, "No runs recorded.", []string{"STARTED", "TOOK", "STATUS", "ITEMS", "ERROR"}, rows)
	return nil
}

// stamp formats t in local time, or "-" when unset.
func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout + " " + clockLayout)
}
