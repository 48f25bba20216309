package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// ConfigurationGapError lists categories that have no selected variant.
type ConfigurationGapError struct {
	Missing []string
}

func (e *ConfigurationGapError) Error() string {
	return fmt.Sprintf("schedule configuration has no variant for: %s", strings.Join(e.Missing, ", "))
}

// UnknownVariantError reports a selection the registry does not offer.
type UnknownVariantError struct {
	Category string
	Variant  string
}

func (e *UnknownVariantError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("unknown schedule category %q", e.Category)
	}
	return fmt.Sprintf("category %q has no variant %q", e.Category, e.Variant)
}

// Registry is an immutable set of calendar exceptions together with the
// selectable categories they reference. Registration order is kept and
// decides which exception is reported when several cover the same date.
type Registry struct {
	exceptions []models.CalendarException
	categories []models.ExceptionCategory
	byID       map[string]models.ExceptionCategory
}

// NewRegistry validates the records and builds a registry.
func NewRegistry(exceptions []models.CalendarException, categories []models.ExceptionCategory) (*Registry, error) {
	byID := make(map[string]models.ExceptionCategory, len(categories))
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("category without id")
		}
		if _, dup := byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		if len(cat.Options) == 0 {
			return nil, fmt.Errorf("category %q has no variants", cat.ID)
		}
		if !cat.HasOption(cat.Default) {
			return nil, fmt.Errorf("category %q: default variant %q is not an option", cat.ID, cat.Default)
		}
		byID[cat.ID] = cat
	}

	for i, exc := range exceptions {
		if err := exc.Validate(); err != nil {
			return nil, fmt.Errorf("exception #%d: %w", i+1, err)
		}
		if !exc.Conditional() {
			continue
		}
		cat, ok := byID[exc.Category]
		if !ok {
			return nil, fmt.Errorf("exception %q references undefined category %q", exc.Description, exc.Category)
		}
		if !cat.HasOption(exc.Variant) {
			return nil, fmt.Errorf("exception %q: category %q has no variant %q", exc.Description, exc.Category, exc.Variant)
		}
	}

	return &Registry{
		exceptions: append([]models.CalendarException(nil), exceptions...),
		categories: append([]models.ExceptionCategory(nil), categories...),
		byID:       byID,
	}, nil
}

// Exceptions returns every registered exception in registration order.
func (r *Registry) Exceptions() []models.CalendarException {
	return append([]models.CalendarException(nil), r.exceptions...)
}

// Categories returns the selectable categories in definition order.
func (r *Registry) Categories() []models.ExceptionCategory {
	return append([]models.ExceptionCategory(nil), r.categories...)
}

// Category looks up a category by id.
func (r *Registry) Category(id string) (models.ExceptionCategory, bool) {
	cat, ok := r.byID[id]
	return cat, ok
}

// IsActiveException returns the first registered exception that covers date
// and is selected by cfg.
func (r *Registry) IsActiveException(date dateutil.Date, cfg models.ScheduleConfiguration) (models.CalendarException, bool) {
	for _, exc := range r.exceptions {
		if exc.Contains(date) && exc.ActiveUnder(cfg) {
			return exc, true
		}
	}
	return models.CalendarException{}, false
}

// ActiveExceptions lists the exceptions selected by cfg ordered by start date.
func (r *Registry) ActiveExceptions(cfg models.ScheduleConfiguration) []models.CalendarException {
	out := make([]models.CalendarException, 0, len(r.exceptions))
	for _, exc := range r.exceptions {
		if exc.ActiveUnder(cfg) {
			out = append(out, exc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// DefaultConfiguration selects every category's default variant.
func (r *Registry) DefaultConfiguration() models.ScheduleConfiguration {
	cfg := make(models.ScheduleConfiguration, len(r.categories))
	for _, cat := range r.categories {
		cfg[cat.ID] = cat.Default
	}
	return cfg
}

// WithDefaults returns cfg completed with defaults for missing categories.
func (r *Registry) WithDefaults(cfg models.ScheduleConfiguration) models.ScheduleConfiguration {
	out := r.DefaultConfiguration()
	for k, v := range cfg {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ValidateConfiguration checks that cfg selects a known variant for every
// category. Missing categories are reported together.
func (r *Registry) ValidateConfiguration(cfg models.ScheduleConfiguration) error {
	var missing []string
	for _, cat := range r.categories {
		if cfg[cat.ID] == "" {
			missing = append(missing, cat.ID)
		}
	}
	if len(missing) > 0 {
		return &ConfigurationGapError{Missing: missing}
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cat, ok := r.byID[k]
		if !ok {
			return &UnknownVariantError{Category: k}
		}
		if !cat.HasOption(cfg[k]) {
			return &UnknownVariantError{Category: k, Variant: cfg[k]}
		}
	}
	return nil
}

// VariantRange returns the span covered by the exceptions of one variant.
func (r *Registry) VariantRange(category, variant string) (start, end dateutil.Date, ok bool) {
	for _, exc := range r.exceptions {
		if exc.Category != category || exc.Variant != variant {
			continue
		}
		if !ok || exc.Start.Before(start) {
			start = exc.Start
		}
		if !ok || exc.End.After(end) {
			end = exc.End
		}
		ok = true
	}
	return start, end, ok
}
