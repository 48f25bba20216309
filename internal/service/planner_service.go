package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

// DefaultFallbackTarget is the annual target assumed when the standards
// table has no entry for a subject and class.
const DefaultFallbackTarget = 216

type referenceProvider interface {
	Snapshot() (*ReferenceSnapshot, error)
}

// PlannerConfig tunes the planner.
type PlannerConfig struct {
	Year           planner.AcademicYear
	FallbackTarget int
	MaxHoursPerDay int
}

// PlannerService runs the calendar engine against the current reference data.
type PlannerService struct {
	reference referenceProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       PlannerConfig
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(reference referenceProvider, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg PlannerConfig) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Year.Start.IsZero() || cfg.Year.End.IsZero() {
		cfg.Year = planner.DefaultAcademicYear()
	}
	if cfg.FallbackTarget <= 0 {
		cfg.FallbackTarget = DefaultFallbackTarget
	}
	if cfg.MaxHoursPerDay <= 0 {
		cfg.MaxHoursPerDay = planner.DefaultMaxHoursPerDay
	}
	return &PlannerService{
		reference: reference,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Year returns the academic year the planner walks.
func (s *PlannerService) Year() planner.AcademicYear {
	return s.cfg.Year
}

// Categories lists the selectable categories with the span of each option.
func (s *PlannerService) Categories(ctx context.Context) ([]dto.CategoryView, error) {
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	cats := snap.Registry.Categories()
	out := make([]dto.CategoryView, 0, len(cats))
	for _, cat := range cats {
		view := dto.CategoryView{ID: cat.ID, Label: cat.Label, DefaultVariant: cat.Default}
		for _, opt := range cat.Options {
			v := dto.VariantView{ID: opt.ID, Label: opt.Label}
			if start, end, ok := snap.Registry.VariantRange(cat.ID, opt.ID); ok {
				v.Start, v.End = &start, &end
			}
			view.Options = append(view.Options, v)
		}
		out = append(out, view)
	}
	return out, nil
}

// ActiveExceptions lists the exceptions a configuration selects.
func (s *PlannerService) ActiveExceptions(ctx context.Context, input dto.ScheduleInput) (*dto.ActiveExceptionsResponse, error) {
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	cfg, err := s.configuration(snap.Registry, input)
	if err != nil {
		return nil, err
	}
	return &dto.ActiveExceptionsResponse{Config: cfg, Exceptions: snap.Registry.ActiveExceptions(cfg)}, nil
}

// EffectiveDates enumerates the effective dates of a weekday selection.
func (s *PlannerService) EffectiveDates(ctx context.Context, req dto.EffectiveDatesRequest) (*dto.EffectiveDatesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	sel, cfg, err := s.schedule(snap.Registry, req.ScheduleInput)
	if err != nil {
		return nil, err
	}

	dates := planner.Enumerate(s.cfg.Year, snap.Registry, sel, cfg)
	var conditions models.Conditions
	if !sel.Empty() && len(dates) == 0 {
		conditions = append(conditions, models.Condition{
			Code:    models.ConditionZeroCapacity,
			Message: fmt.Sprintf("no effective dates left for %s", sel),
		})
	}
	s.metrics.ObservePlan("effective_dates", conditions, 0)

	return &dto.EffectiveDatesResponse{
		Days:       sel.Names(),
		Config:     cfg,
		Count:      len(dates),
		Dates:      dates,
		Conditions: nonNilConditions(conditions),
	}, nil
}

// Allocation resolves the target, optionally widens the weekday selection,
// enumerates effective dates and distributes the target over them.
func (s *PlannerService) Allocation(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	sel, cfg, err := s.schedule(snap.Registry, req.ScheduleInput)
	if err != nil {
		return nil, err
	}

	target, conditions := s.target(snap.Data.Standards, req.Subject, req.ClassName, req.TargetOverride)

	if req.AutoExpand {
		expanded, changed := planner.ExpandSelection(sel, target.Hours, req.ClassName, s.cfg.MaxHoursPerDay)
		if changed {
			conditions = append(models.Conditions{{
				Code:    models.ConditionWeekdaysExpanded,
				Message: fmt.Sprintf("weekday selection widened from %s to %s to carry %d JP per week", sel, expanded, target.Weekly),
				Amount:  expanded.Len() - sel.Len(),
			}}, conditions...)
			sel = expanded
		}
	}

	slots := planner.Enumerate(s.cfg.Year, snap.Registry, sel, cfg)
	plan := planner.Allocate(target.Hours, slots)
	conditions = append(conditions, planner.AssessPlan(plan, sel, s.cfg.MaxHoursPerDay)...)
	s.metrics.ObservePlan("allocation", conditions, plan.Deficit())

	if plan.Deficit() > 0 {
		s.logger.Info("allocation below target",
			zap.String("subject", req.Subject),
			zap.String("class", req.ClassName),
			zap.Int("target", plan.TargetTotal),
			zap.Int("deficit", plan.Deficit()))
	}

	return &dto.AllocationResponse{
		Subject:    req.Subject,
		ClassName:  req.ClassName,
		Days:       sel.Names(),
		Config:     cfg,
		Target:     target,
		Plan:       plan,
		Conditions: nonNilConditions(conditions),
	}, nil
}

// Analysis reports calendar analytics for a subject and class.
func (s *PlannerService) Analysis(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	sel, cfg, err := s.schedule(snap.Registry, req.ScheduleInput)
	if err != nil {
		return nil, err
	}

	target, conditions := s.target(snap.Data.Standards, req.Subject, req.ClassName, req.TargetOverride)
	semesterBreak := s.cfg.Year.SemesterBreak(snap.Registry, cfg)
	report := planner.Analyze(s.cfg.Year, snap.Registry, sel, cfg, target.Hours, semesterBreak)
	report.WeeklyTarget = target.Weekly

	if !sel.Empty() && report.TotalAvailableSlots == 0 {
		conditions = append(conditions, models.Condition{
			Code:    models.ConditionZeroCapacity,
			Message: fmt.Sprintf("no effective dates left for %s", sel),
		})
	}
	s.metrics.ObservePlan("analysis", conditions, 0)

	return &dto.AnalysisResponse{
		Subject:    req.Subject,
		ClassName:  req.ClassName,
		Days:       sel.Names(),
		Config:     cfg,
		Target:     target,
		Report:     report,
		Conditions: nonNilConditions(conditions),
	}, nil
}

// MonthCalendar classifies every day of a month for a weekday selection.
func (s *PlannerService) MonthCalendar(ctx context.Context, req dto.MonthCalendarRequest) (*models.MonthCalendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	sel, cfg, err := s.schedule(snap.Registry, req.ScheduleInput)
	if err != nil {
		return nil, err
	}
	cal := planner.MonthCalendar(s.cfg.Year, snap.Registry, sel, cfg, req.Year, req.Month)
	return &cal, nil
}

// ResolveTarget looks up one standards entry, applying the fallback on a miss.
func (s *PlannerService) ResolveTarget(ctx context.Context, req dto.ResolveTargetRequest) (*dto.ResolveTargetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	target, conditions := s.target(snap.Data.Standards, req.Subject, req.ClassName, nil)
	return &dto.ResolveTargetResponse{
		Subject:    req.Subject,
		ClassName:  req.ClassName,
		Target:     target,
		Conditions: nonNilConditions(conditions),
	}, nil
}

func (s *PlannerService) target(table models.TargetHourTable, subject, className string, override *int) (dto.TargetInfo, models.Conditions) {
	if override != nil {
		return dto.TargetInfo{
			Hours:    *override,
			Override: true,
			Weekly:   planner.WeeklyTarget(*override, className),
		}, nil
	}
	res, ok := planner.ResolveTarget(table, subject, className)
	if !ok {
		s.logger.Warn("standards lookup miss", zap.String("subject", subject), zap.String("class", className))
		info := dto.TargetInfo{
			Hours:   s.cfg.FallbackTarget,
			Assumed: true,
			Weekly:  planner.WeeklyTarget(s.cfg.FallbackTarget, className),
		}
		return info, models.Conditions{{
			Code:    models.ConditionLookupMiss,
			Message: fmt.Sprintf("no standard for %q in %s; assumed %d JP", subject, className, s.cfg.FallbackTarget),
			Amount:  s.cfg.FallbackTarget,
		}}
	}
	return dto.TargetInfo{
		Hours:      res.Target,
		SubjectKey: res.SubjectKey,
		Rule:       string(res.Rule),
		Weekly:     planner.WeeklyTarget(res.Target, className),
	}, nil
}

func (s *PlannerService) schedule(reg *planner.Registry, input dto.ScheduleInput) (models.WeekdaySelection, models.ScheduleConfiguration, error) {
	sel, err := models.NewWeekdaySelection(input.Days...)
	if err != nil {
		return models.WeekdaySelection{}, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	cfg, err := s.configuration(reg, input)
	if err != nil {
		return models.WeekdaySelection{}, nil, err
	}
	return sel, cfg, nil
}

func (s *PlannerService) configuration(reg *planner.Registry, input dto.ScheduleInput) (models.ScheduleConfiguration, error) {
	cfg := models.ScheduleConfiguration(input.Config).Clone()
	if input.ApplyDefaults {
		cfg = reg.WithDefaults(cfg)
	}
	if err := reg.ValidateConfiguration(cfg); err != nil {
		return nil, configurationError(err)
	}
	return cfg, nil
}

func configurationError(err error) error {
	var gap *planner.ConfigurationGapError
	if errors.As(err, &gap) {
		return appErrors.WrapAs(err, appErrors.ErrConfigurationGap, err.Error()).
			WithDetails(map[string]interface{}{"missing": gap.Missing})
	}
	var unknown *planner.UnknownVariantError
	if errors.As(err, &unknown) {
		return appErrors.WrapAs(err, appErrors.ErrUnknownVariant, err.Error()).
			WithDetails(map[string]interface{}{"category": unknown.Category, "variant": unknown.Variant})
	}
	return appErrors.WrapAs(err, appErrors.ErrValidation, err.Error())
}

func nonNilConditions(c models.Conditions) models.Conditions {
	if c == nil {
		return models.Conditions{}
	}
	return c
}
