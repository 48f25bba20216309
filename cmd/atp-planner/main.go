package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/internal/repository"
	"github.com/noah-isme/atp-planner-api/internal/service"
	"github.com/noah-isme/atp-planner-api/pkg/config"
	"github.com/noah-isme/atp-planner-api/pkg/database"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/logger"
)

var (
	referenceSource string
	referenceFile   string
	jsonOutput      bool

	cfg    *config.Config
	logr   *zap.Logger
	stdout io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "atp-planner",
		Short:         "School calendar and JP allocation planner",
		Long:          "Enumerate effective teaching dates, distribute annual JP targets and manage the reference calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if referenceSource != "" {
				loaded.Reference.Source = strings.ToLower(referenceSource)
			}
			if referenceFile != "" {
				loaded.Reference.File = referenceFile
			}
			cfg = loaded
			logr, err = logger.New(cfg)
			if err != nil {
				logr = zap.NewNop()
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logr != nil {
				_ = logr.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&referenceSource, "source", "", "Reference source: static, file or database")
	rootCmd.PersistentFlags().StringVar(&referenceFile, "file", "", "Reference YAML file for the file source")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(datesCmd(), allocateCmd(), analyzeCmd(), targetCmd(), registryCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && len(appErr.Details) > 0 {
			details, _ := json.Marshal(appErr.Details)
			fmt.Fprintf(os.Stderr, "Details: %s\n", details)
		}
		stop()
		os.Exit(1)
	}
}

type scheduleFlags struct {
	days          []string
	config        map[string]string
	applyDefaults bool
}

func (f *scheduleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.days, "days", nil, "Teaching weekdays, e.g. Senin,Rabu")
	cmd.Flags().StringToStringVar(&f.config, "config", nil, "Variant per category, e.g. pts=v2,libur_smt1=v1")
	cmd.Flags().BoolVar(&f.applyDefaults, "apply-defaults", true, "Use the default variant for unconfigured categories")
}

func (f *scheduleFlags) input() dto.ScheduleInput {
	return dto.ScheduleInput{Days: f.days, Config: f.config, ApplyDefaults: f.applyDefaults}
}

func loadReference(ctx context.Context) (*service.ReferenceService, func(), error) {
	loader, closeFn, err := referenceLoader(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	svc := service.NewReferenceService(loader, logr)
	if err := svc.Reload(ctx); err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return svc, closeFn, nil
}

func newPlanner(ctx context.Context) (*service.PlannerService, func(), error) {
	year, err := planner.ParseAcademicYear(cfg.Planner.YearStart, cfg.Planner.YearEnd, cfg.Planner.SemesterBreakCategory, cfg.Planner.SemesterBreakFallback)
	if err != nil {
		return nil, func() {}, err
	}
	reference, closeFn, err := loadReference(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	svc := service.NewPlannerService(reference, nil, nil, logr, service.PlannerConfig{
		Year:           year,
		FallbackTarget: cfg.Planner.FallbackTargetHours,
		MaxHoursPerDay: cfg.Planner.MaxHoursPerDay,
	})
	return svc, closeFn, nil
}

type dataSource interface {
	Load(ctx context.Context) (*models.ReferenceData, error)
}

func referenceLoader(cfg *config.Config) (dataSource, func(), error) {
	noop := func() {}
	switch cfg.Reference.Source {
	case "", config.ReferenceStatic:
		return repository.NewStaticReferenceRepository(), noop, nil
	case config.ReferenceFile:
		return repository.NewReferenceFileRepository(cfg.Reference.File), noop, nil
	case config.ReferenceDatabase:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewReferenceRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown reference source %q", cfg.Reference.Source)
	}
}

func datesCmd() *cobra.Command {
	var sched scheduleFlags
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List effective teaching dates of the academic year",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.EffectiveDates(cmd.Context(), dto.EffectiveDatesRequest{ScheduleInput: sched.input()})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}

			w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tDATE\tDAY")
			for i, d := range result.Dates {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, d, planner.DayName(d))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\nEffective dates: %d\n", result.Count)
			printConditions(result.Conditions)
			return nil
		},
	}
	sched.bind(cmd)
	return cmd
}

func allocateCmd() *cobra.Command {
	var (
		sched      scheduleFlags
		subject    string
		className  string
		target     int
		autoExpand bool
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Distribute the annual JP target of a subject over its effective dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			req := dto.AllocationRequest{
				ScheduleInput: sched.input(),
				Subject:       subject,
				ClassName:     className,
				AutoExpand:    autoExpand,
			}
			if cmd.Flags().Changed("target") {
				req.TargetOverride = &target
			}
			result, err := svc.Allocation(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}

			w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tDATE\tDAY\tJP")
			for i, entry := range result.Plan.Entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, entry.Date, planner.DayName(entry.Date), entry.Hours)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\n%s %s on %s\n", result.Subject, result.ClassName, strings.Join(result.Days, ", "))
			fmt.Fprintf(stdout, "Target: %d JP%s (weekly %d)\n", result.Target.Hours, targetNote(result.Target), result.Target.Weekly)
			fmt.Fprintf(stdout, "Allocated: %d JP over %d of %d slots (base %d, remainder %d)\n",
				result.Plan.Sum(), len(result.Plan.Entries), result.Plan.SlotCount, result.Plan.Base, result.Plan.Remainder)
			printConditions(result.Conditions)
			return nil
		},
	}
	sched.bind(cmd)
	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&className, "class", "", "Class name, e.g. \"Kelas 3\"")
	cmd.Flags().IntVar(&target, "target", 0, "Override the annual JP target")
	cmd.Flags().BoolVar(&autoExpand, "auto-expand", false, "Add weekdays while the selection cannot fit the target")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		sched     scheduleFlags
		subject   string
		className string
		target    int
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarise effective days per semester, month and weekday",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			req := dto.AnalysisRequest{ScheduleInput: sched.input(), Subject: subject, ClassName: className}
			if cmd.Flags().Changed("target") {
				req.TargetOverride = &target
			}
			result, err := svc.Analysis(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}

			report := result.Report
			fmt.Fprintf(stdout, "Target %d JP, weekly %d JP, semester break %s\n", report.TargetTotal, report.WeeklyTarget, report.SemesterBreak)
			fmt.Fprintf(stdout, "Available slots %d, effective weeks %d, lost days %d\n\n",
				report.TotalAvailableSlots, report.TotalEffectiveWeeks, report.TotalNonEffectiveDays)

			w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SEMESTER\tEFFECTIVE\tLOST\tWEEKS")
			for _, sem := range []models.SemesterSummary{report.Semester1, report.Semester2} {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", sem.Semester, sem.EffectiveDays, sem.NonEffectiveDays, sem.EffectiveWeeks)
			}
			fmt.Fprintln(w, "\nMONTH\tSEMESTER\tEFFECTIVE\tLOST")
			for _, month := range report.Months {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", month.Label, month.Semester, month.EffectiveDays, len(month.NonEffectiveDetails))
			}
			fmt.Fprintln(w, "\nWEEKDAY\tEFFECTIVE")
			for _, load := range report.WeekdayLoads {
				fmt.Fprintf(w, "%s\t%d\n", load.Day, load.EffectiveDays)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printConditions(result.Conditions)
			return nil
		},
	}
	sched.bind(cmd)
	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&className, "class", "", "Class name")
	cmd.Flags().IntVar(&target, "target", 0, "Override the annual JP target")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func targetCmd() *cobra.Command {
	var subject, className string
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Resolve the annual JP target of a subject and class",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.ResolveTarget(cmd.Context(), dto.ResolveTargetRequest{Subject: subject, ClassName: className})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			fmt.Fprintf(stdout, "%s %s: %d JP%s\n", result.Subject, result.ClassName, result.Target.Hours, targetNote(result.Target))
			printConditions(result.Conditions)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&className, "class", "", "Class name")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func targetNote(t dto.TargetInfo) string {
	switch {
	case t.Override:
		return " (override)"
	case t.Assumed:
		return " (assumed)"
	case t.SubjectKey != "":
		return fmt.Sprintf(" (%s, %s)", t.SubjectKey, t.Rule)
	default:
		return ""
	}
}

func printConditions(conds models.Conditions) {
	for _, cond := range conds {
		fmt.Fprintf(stdout, "! %s: %s\n", cond.Code, cond.Message)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
