package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// ReferenceRepository reads reference data from PostgreSQL. Position columns
// keep registration order, which decides overlap and fuzzy-match ties.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

type variantRow struct {
	CategoryID string `db:"category_id"`
	Variant    string `db:"variant"`
	Label      string `db:"label"`
}

type phaseRow struct {
	ID      string         `db:"id"`
	Name    string         `db:"name"`
	Classes pq.StringArray `db:"classes"`
}

// Load reads every reference table.
func (r *ReferenceRepository) Load(ctx context.Context) (*models.ReferenceData, error) {
	data := &models.ReferenceData{}

	if err := r.db.GetContext(ctx, &data.Version, `SELECT version FROM reference_versions ORDER BY created_at DESC LIMIT 1`); err != nil {
		return nil, fmt.Errorf("load reference version: %w", err)
	}

	const exceptionsQuery = `SELECT start_date, end_date, description, kind,
       COALESCE(category, '') AS category, COALESCE(variant, '') AS variant
FROM calendar_exceptions ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &data.Exceptions, exceptionsQuery); err != nil {
		return nil, fmt.Errorf("load calendar exceptions: %w", err)
	}

	const categoriesQuery = `SELECT id, label, default_variant FROM exception_categories ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &data.Categories, categoriesQuery); err != nil {
		return nil, fmt.Errorf("load exception categories: %w", err)
	}

	var variants []variantRow
	const variantsQuery = `SELECT category_id, variant, label FROM exception_variants ORDER BY category_id ASC, position ASC`
	if err := r.db.SelectContext(ctx, &variants, variantsQuery); err != nil {
		return nil, fmt.Errorf("load exception variants: %w", err)
	}
	index := make(map[string]int, len(data.Categories))
	for i, cat := range data.Categories {
		index[cat.ID] = i
	}
	for _, v := range variants {
		i, ok := index[v.CategoryID]
		if !ok {
			return nil, fmt.Errorf("variant %q references unknown category %q", v.Variant, v.CategoryID)
		}
		data.Categories[i].Options = append(data.Categories[i].Options, models.VariantOption{ID: v.Variant, Label: v.Label})
	}

	var standards []models.StandardRow
	const standardsQuery = `SELECT subject, class_name, hours, position FROM jp_standards ORDER BY position ASC, class_name ASC`
	if err := r.db.SelectContext(ctx, &standards, standardsQuery); err != nil {
		return nil, fmt.Errorf("load jp standards: %w", err)
	}
	data.Standards = models.BuildTargetHourTable(standards)

	const subjectsQuery = `SELECT name FROM subjects ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &data.Subjects, subjectsQuery); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	var phases []phaseRow
	const phasesQuery = `SELECT id, name, classes FROM phases ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &phases, phasesQuery); err != nil {
		return nil, fmt.Errorf("load phases: %w", err)
	}
	for _, p := range phases {
		data.Phases = append(data.Phases, models.Phase{ID: p.ID, Name: p.Name, Classes: []string(p.Classes)})
	}

	return data, nil
}

// Replace swaps the stored reference data for data inside one transaction.
func (r *ReferenceRepository) Replace(ctx context.Context, data *models.ReferenceData) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reference tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"calendar_exceptions", "exception_variants", "exception_categories", "jp_standards", "subjects", "phases"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, cat := range data.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO exception_categories (id, label, default_variant, position) VALUES ($1, $2, $3, $4)`,
			cat.ID, cat.Label, cat.Default, i); err != nil {
			return fmt.Errorf("insert category %s: %w", cat.ID, err)
		}
		for j, opt := range cat.Options {
			if _, err := tx.ExecContext(ctx, `INSERT INTO exception_variants (category_id, variant, label, position) VALUES ($1, $2, $3, $4)`,
				cat.ID, opt.ID, opt.Label, j); err != nil {
				return fmt.Errorf("insert variant %s/%s: %w", cat.ID, opt.ID, err)
			}
		}
	}

	for i, exc := range data.Exceptions {
		if _, err := tx.ExecContext(ctx, `INSERT INTO calendar_exceptions (start_date, end_date, description, kind, category, variant, position)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)`,
			exc.Start, exc.End, exc.Description, string(exc.Kind), exc.Category, exc.Variant, i); err != nil {
			return fmt.Errorf("insert exception %q: %w", exc.Description, err)
		}
	}

	for i, row := range data.Standards {
		classes := make([]string, 0, len(row.Classes))
		for class := range row.Classes {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			if _, err := tx.ExecContext(ctx, `INSERT INTO jp_standards (subject, class_name, hours, position) VALUES ($1, $2, $3, $4)`,
				row.Subject, class, row.Classes[class], i); err != nil {
				return fmt.Errorf("insert standard %s/%s: %w", row.Subject, class, err)
			}
		}
	}

	for i, name := range data.Subjects {
		if _, err := tx.ExecContext(ctx, `INSERT INTO subjects (name, position) VALUES ($1, $2)`, name, i); err != nil {
			return fmt.Errorf("insert subject %s: %w", name, err)
		}
	}

	for _, p := range data.Phases {
		if _, err := tx.ExecContext(ctx, `INSERT INTO phases (id, name, classes) VALUES ($1, $2, $3)`,
			p.ID, p.Name, pq.Array(p.Classes)); err != nil {
			return fmt.Errorf("insert phase %s: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO reference_versions (version, created_at) VALUES ($1, NOW())`, data.Version); err != nil {
		return fmt.Errorf("insert reference version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reference tx: %w", err)
	}
	return nil
}
