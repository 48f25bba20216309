package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/genai"
)

type contentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out interface{}) error
}

type historyRecorder interface {
	Record(ctx context.Context, sessionID string, kind models.ActivityType, subject, details string, snapshot models.CurriculumData, paperSize string) (string, error)
}

type allocationPlanner interface {
	Allocation(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResponse, error)
	Year() planner.AcademicYear
}

// ContentConfig toggles and bounds content generation.
type ContentConfig struct {
	Enabled        bool
	MaxConcurrency int
}

// ContentService drives the two generation steps and binds generated
// activities to the hour plan.
type ContentService struct {
	generator contentGenerator
	planner   allocationPlanner
	reference referenceProvider
	history   historyRecorder
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ContentConfig
}

// NewContentService constructs a ContentService. A nil generator disables generation.
func NewContentService(generator contentGenerator, plannerSvc allocationPlanner, reference referenceProvider, history historyRecorder, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg ContentConfig) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 2
	}
	return &ContentService{
		generator: generator,
		planner:   plannerSvc,
		reference: reference,
		history:   history,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Enabled reports whether generation calls are allowed.
func (s *ContentService) Enabled() bool {
	return s.cfg.Enabled && s.generator != nil
}

// GenerateObjectives asks the generator for learning outcomes and objectives
// of a subject in one phase and records the result in the session history.
func (s *ContentService) GenerateObjectives(ctx context.Context, sessionID string, req dto.ObjectivesRequest) (*dto.ObjectivesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrContentDisabled, "")
	}
	snap, err := s.reference.Snapshot()
	if err != nil {
		return nil, err
	}
	phase, ok := snap.Data.Phase(req.PhaseID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown phase %q", req.PhaseID))
	}

	var reply objectivesReply
	if err := s.generate(ctx, "objectives", objectivesPrompt(req.Subject, phase), objectivesSchema, &reply); err != nil {
		return nil, generationError(err)
	}
	data := reply.curriculum(req.Subject, phase)
	if len(data.Elements) == 0 {
		return nil, appErrors.Clone(appErrors.ErrContentGeneration, "content generator returned no elements")
	}

	details := fmt.Sprintf("objectives for %s (%s)", strings.Join(phase.Classes, ", "), phase.Name)
	historyID := s.record(ctx, sessionID, models.ActivityObjectives, req.Subject, details, data, req.PaperSize)
	return &dto.ObjectivesResponse{Curriculum: data, HistoryID: historyID}, nil
}

// GeneratePathway allocates hours for one class, asks the generator for one
// activity per planned meeting and binds the activities to the plan.
func (s *ContentService) GeneratePathway(ctx context.Context, sessionID string, req dto.PathwayRequest) (*dto.PathwayResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrContentDisabled, "")
	}
	if err := checkCurriculum(req.Curriculum, req.ClassName); err != nil {
		return nil, err
	}

	res, err := s.pathway(ctx, req)
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("pathway for %s (%s), target %d JP",
		req.ClassName, strings.Join(res.Allocation.Days, ", "), res.Allocation.Plan.TargetTotal)
	res.HistoryID = s.record(ctx, sessionID, models.ActivityPathway, req.Curriculum.Subject, details, res.Curriculum, req.PaperSize)
	return res, nil
}

// GeneratePhasePathway runs pathway generation for several classes
// concurrently and merges each class pathway into one curriculum. A failure
// for any class fails the call.
func (s *ContentService) GeneratePhasePathway(ctx context.Context, sessionID string, req dto.PhasePathwayRequest) (*dto.PhasePathwayResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrContentDisabled, "")
	}
	seen := make(map[string]struct{}, len(req.Classes))
	for _, cls := range req.Classes {
		if _, dup := seen[cls.ClassName]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("class %q listed twice", cls.ClassName))
		}
		seen[cls.ClassName] = struct{}{}
		if err := checkCurriculum(req.Curriculum, cls.ClassName); err != nil {
			return nil, err
		}
	}

	results := make([]*dto.PathwayResponse, len(req.Classes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, cls := range req.Classes {
		i, cls := i, cls
		g.Go(func() error {
			res, err := s.pathway(gctx, dto.PathwayRequest{
				ScheduleInput: dto.ScheduleInput{Days: cls.Days, Config: req.Config, ApplyDefaults: req.ApplyDefaults},
				Curriculum:    req.Curriculum,
				ClassName:     cls.ClassName,
				AutoExpand:    req.AutoExpand,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := req.Curriculum.Clone()
	classes := make([]dto.PathwayResponse, 0, len(results))
	names := make([]string, 0, len(results))
	for i, res := range results {
		mergeClass(&merged, res.Curriculum, req.Classes[i].ClassName)
		classes = append(classes, *res)
		names = append(names, req.Classes[i].ClassName)
	}

	details := fmt.Sprintf("pathway for %s", strings.Join(names, ", "))
	historyID := s.record(ctx, sessionID, models.ActivityPathway, req.Curriculum.Subject, details, merged, req.PaperSize)
	return &dto.PhasePathwayResponse{Curriculum: merged, Classes: classes, HistoryID: historyID}, nil
}

func (s *ContentService) pathway(ctx context.Context, req dto.PathwayRequest) (*dto.PathwayResponse, error) {
	autoExpand := true
	if req.AutoExpand != nil {
		autoExpand = *req.AutoExpand
	}
	alloc, err := s.planner.Allocation(ctx, dto.AllocationRequest{
		ScheduleInput:  req.ScheduleInput,
		Subject:        req.Curriculum.Subject,
		ClassName:      req.ClassName,
		TargetOverride: req.TargetOverride,
		AutoExpand:     autoExpand,
	})
	if err != nil {
		return nil, err
	}

	var generated []planner.GeneratedElement
	if len(alloc.Plan.Entries) > 0 {
		prompt, err := pathwayPrompt(req.Curriculum, req.ClassName, alloc)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build pathway prompt")
		}
		var reply pathwayReply
		if err := s.generate(ctx, "pathway", prompt, pathwaySchema, &reply); err != nil {
			return nil, generationError(err).WithDetails(map[string]interface{}{"allocation": alloc})
		}
		generated = reply.generated()
	}

	bound := planner.BindPathway(req.Curriculum, req.ClassName, alloc.Days, generated, alloc.Plan, s.planner.Year())
	conditions := append(append(models.Conditions{}, alloc.Conditions...), bound.Conditions()...)
	if bound.Dropped > 0 || bound.Unfilled > 0 {
		s.logger.Info("pathway rows did not match plan",
			zap.String("class", req.ClassName),
			zap.Int("planned", len(alloc.Plan.Entries)),
			zap.Int("dropped", bound.Dropped),
			zap.Int("unfilled", bound.Unfilled))
	}

	return &dto.PathwayResponse{
		Curriculum: bound.Data,
		Allocation: *alloc,
		Filled:     bound.Filled,
		TotalHours: bound.Data.TotalHours(req.ClassName),
		Conditions: conditions,
	}, nil
}

func (s *ContentService) generate(ctx context.Context, step, prompt string, schema *genai.Schema, out interface{}) error {
	start := time.Now()
	err := s.generator.GenerateJSON(ctx, prompt, schema, out)
	s.metrics.ObserveGeneration(step, time.Since(start), err)
	if err != nil {
		s.logger.Warn("content generation failed", zap.String("step", step), zap.Error(err))
	}
	return err
}

func (s *ContentService) record(ctx context.Context, sessionID string, kind models.ActivityType, subject, details string, data models.CurriculumData, paperSize string) string {
	if s.history == nil || sessionID == "" {
		return ""
	}
	id, err := s.history.Record(ctx, sessionID, kind, subject, details, data, paperSize)
	if err != nil {
		s.logger.Error("failed to record history", zap.String("type", string(kind)), zap.Error(err))
		return ""
	}
	return id
}

func checkCurriculum(data models.CurriculumData, className string) error {
	if len(data.Elements) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "curriculum has no elements")
	}
	for _, c := range data.Classes() {
		if c == className {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("curriculum has no objectives for %s", className))
}

// mergeClass copies the allocations of className from src into dst. Both come
// from the same curriculum so element and allocation positions line up.
func mergeClass(dst *models.CurriculumData, src models.CurriculumData, className string) {
	for ei := range dst.Elements {
		if ei >= len(src.Elements) {
			return
		}
		for ai := range dst.Elements[ei].Allocations {
			if dst.Elements[ei].Allocations[ai].ClassName != className || ai >= len(src.Elements[ei].Allocations) {
				continue
			}
			dst.Elements[ei].Allocations[ai] = src.Elements[ei].Allocations[ai]
		}
	}
}

func generationError(err error) *appErrors.Error {
	var status *genai.StatusError
	switch {
	case errors.As(err, &status):
		return appErrors.WrapAs(err, appErrors.ErrContentGeneration, fmt.Sprintf("content generator returned status %d", status.StatusCode))
	case errors.Is(err, context.DeadlineExceeded):
		return appErrors.WrapAs(err, appErrors.ErrContentGeneration, "content generation timed out")
	default:
		return appErrors.WrapAs(err, appErrors.ErrContentGeneration, "")
	}
}
