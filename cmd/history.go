package main

import (
	"fmt"
	"time"

	"sherpa/internal/core/model"
	"sherpa/internal/core/timekeeper"
	"sherpa/internal/ui/console"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [today|all]",
	Short: "Print tasks without starting a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, err := store.Load()
		if err != nil {
			return err
		}
		presenter := console.New(cmd.OutOrStdout())
		if len(args) == 1 && args[0] == "today" {
			today := time.Now()
			presenter.ShowTasks(fmt.Sprintf("Schedule for %s:", today.Format(model.DateLayout)), tasks.TasksOn(today))
			return nil
		}
		presenter.ShowTasks("Here are your tasks:", tasks.Tasks())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Sessions()
		if err != nil {
			return err
		}
		presenter := console.New(cmd.OutOrStdout())
		if len(records) == 0 {
			presenter.ShowToUser("No study sessions yet.")
			return nil
		}
		lines, total := historyLines(records)
		presenter.ShowToUser(lines...)
		presenter.ShowLine()
		presenter.ShowToUser(fmt.Sprintf("Studied %s in %d session(s).", timekeeper.DescribeDuration(total), len(records)))
		return nil
	},
}

func historyLines(records []model.SessionRecord) ([]string, int) {
	lines := make([]string, 0, len(records))
	var total int
	for _, record := range records {
		total += record.Seconds
		lines = append(lines, fmt.Sprintf("%s  %-9s %s  %s",
			record.StartedAt.Local().Format("2/1/2006 15:04"),
			record.Mode,
			timekeeper.FormatCompact(record.Seconds),
			record.Outcome))
	}
	return lines, total
}
