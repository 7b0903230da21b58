package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vkarpov/plantmind/internal/scheduling"
	"github.com/vkarpov/plantmind/internal/store"
	"gopkg.in/yaml.v3"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Yearly diagnostic schedule commands",
	}

	cmd.AddCommand(newScheduleCreateCmd())
	cmd.AddCommand(newScheduleAddCmd())
	cmd.AddCommand(newScheduleShowCmd())
	cmd.AddCommand(newScheduleDeleteCmd())
	return cmd
}

// planFile is the YAML input for schedule create and add.
type planFile struct {
	Year               int                           `yaml:"year"`
	WorkersCount       int                           `yaml:"workers_count"`
	ShiftDurationHours int                           `yaml:"shift_duration_hours"`
	StartDate          string                        `yaml:"start_date"`
	Equipment          []scheduling.EquipmentRequest `yaml:"equipment"`
}

func loadPlan(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	var plan planFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return &plan, nil
}

func parsePlanDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q, want YYYY-MM-DD", value)
	}
	return d, nil
}

func newScheduleCreateCmd() *cobra.Command {
	var (
		configPath string
		planPath   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a yearly schedule from a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleCreate(cmd, configPath, planPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	cmd.Flags().StringVarP(&planPath, "file", "f", "plan.yaml", "path to the schedule plan file")
	return cmd
}

func runScheduleCreate(cmd *cobra.Command, configPath, planPath string) error {
	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}
	start, err := parsePlanDate(plan.StartDate)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	st := store.New(gormDB)
	engine := scheduling.NewEngine(st, st, st)

	schedule, err := engine.CreateYearly(scheduling.CreateRequest{
		Year:               plan.Year,
		WorkersCount:       plan.WorkersCount,
		ShiftDurationHours: plan.ShiftDurationHours,
		StartDate:          start,
		Equipment:          plan.Equipment,
	})
	if err != nil {
		return err
	}

	entries, err := st.BySchedule(schedule.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %d for %d: %d entries across %d equipment\n",
		schedule.ID, schedule.Year, len(entries), len(plan.Equipment))
	return nil
}

func newScheduleAddCmd() *cobra.Command {
	var (
		configPath string
		planPath   string
		scheduleID uint
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add equipment from a plan file to an existing schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleAdd(cmd, configPath, planPath, scheduleID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	cmd.Flags().StringVarP(&planPath, "file", "f", "plan.yaml", "path to the equipment plan file")
	cmd.Flags().UintVar(&scheduleID, "id", 0, "schedule ID to add equipment to")
	cmd.MarkFlagRequired("id")
	return cmd
}

func runScheduleAdd(cmd *cobra.Command, configPath, planPath string, scheduleID uint) error {
	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}
	start, err := parsePlanDate(plan.StartDate)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	st := store.New(gormDB)
	engine := scheduling.NewEngine(st, st, st)

	schedule, err := engine.AddEquipment(scheduleID, plan.Equipment, start)
	if err != nil {
		return err
	}

	entries, err := st.BySchedule(schedule.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schedule %d now has %d entries\n", schedule.ID, len(entries))
	return nil
}

func newScheduleShowCmd() *cobra.Command {
	var (
		configPath string
		year       int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a year's schedule summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleShow(cmd, configPath, year)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "schedule year")
	return cmd
}

func runScheduleShow(cmd *cobra.Command, configPath string, year int) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	st := store.New(gormDB)

	schedule, err := st.FindByYear(year)
	if err != nil {
		return err
	}
	entries, err := st.BySchedule(schedule.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Schedule %d — year %d, %d workers, %dh shift, %d entries\n",
		schedule.ID, schedule.Year, schedule.WorkersCount, schedule.ShiftDurationHours, len(entries))

	perMonth := make([]int, 12)
	completed := 0
	for _, e := range entries {
		perMonth[int(e.ScheduledDate.Month())-1]++
		if e.Completed {
			completed++
		}
	}
	for m := time.January; m <= time.December; m++ {
		if perMonth[m-1] == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-9s %d\n", m.String(), perMonth[m-1])
	}
	fmt.Fprintf(out, "Completed: %d/%d\n", completed, len(entries))
	return nil
}

func newScheduleDeleteCmd() *cobra.Command {
	var (
		configPath string
		scheduleID uint
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a schedule and all of its entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleDelete(cmd, configPath, scheduleID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	cmd.Flags().UintVar(&scheduleID, "id", 0, "schedule ID to delete")
	cmd.MarkFlagRequired("id")
	return cmd
}

func runScheduleDelete(cmd *cobra.Command, configPath string, scheduleID uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	st := store.New(gormDB)
	engine := scheduling.NewEngine(st, st, st)

	if err := engine.DeleteSchedule(scheduleID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted schedule %d\n", scheduleID)
	return nil
}
