package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/pkg/export"
	"github.com/noah-isme/atp-planner-api/pkg/storage"
)

const (
	documentTitle    = "Alur Tujuan Pembelajaran (ATP)"
	totalRowLabel    = "TOTAL ALOKASI WAKTU (INTRAKURIKULER)"
	notGeneratedText = "Belum digenerate"
)

// Document columns.
const (
	colClass     = "Kelas"
	colNo        = "No"
	colElement   = "Elemen"
	colOutcome   = "Capaian Pembelajaran"
	colObjective = "Tujuan Pembelajaran"
	colActivity  = "Alur Tujuan Pembelajaran"
	colHours     = "JP"
	colDate      = "Rencana Tanggal"
)

type historyReader interface {
	Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pageRenderer interface {
	Render(data export.Dataset, page export.Page) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix        string
	ResultTTL        time.Duration
	DefaultPaperSize string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders history snapshots into documents and stores them.
type ExportService struct {
	history   historyReader
	reference referenceProvider
	storage   fileStorage
	csv       csvRenderer
	pdf       pageRenderer
	xlsx      pageRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// ExportRenderers overrides the document renderers; nil fields use the defaults.
type ExportRenderers struct {
	CSV  csvRenderer
	PDF  pageRenderer
	XLSX pageRenderer
}

// NewExportService constructs an ExportService.
func NewExportService(history historyReader, reference referenceProvider, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, renderers ExportRenderers) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if _, ok := models.PaperSizeByName(cfg.DefaultPaperSize); !ok {
		cfg.DefaultPaperSize = models.PaperA4.Name
	}
	if renderers.CSV == nil {
		renderers.CSV = export.NewCSVExporter()
	}
	if renderers.PDF == nil {
		renderers.PDF = export.NewPDFExporter()
	}
	if renderers.XLSX == nil {
		renderers.XLSX = export.NewXLSXExporter()
	}
	return &ExportService{
		history:   history,
		reference: reference,
		storage:   files,
		csv:       renderers.CSV,
		pdf:       renderers.PDF,
		xlsx:      renderers.XLSX,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate renders the history entry referenced by job and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	entry, err := s.history.Get(ctx, job.SessionID, job.HistoryID)
	if err != nil {
		return nil, err
	}

	dataset := s.BuildDataset(entry.Snapshot, job.ClassName)
	page := s.page(job.PaperSize, entry.PaperSize)

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, page)
	case models.ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, page)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, entry.Snapshot), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Debug("export rendered",
		zap.String("job_id", job.ID),
		zap.String("format", string(job.Format)),
		zap.String("paper", page.Name),
		zap.Int("rows", len(dataset.Rows)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// BuildDataset lays out the pathway of every class (or only className) in
// element, objective, activity order, closing each class with its total.
// Elements without a pathway keep one placeholder row per objective.
func (s *ExportService) BuildDataset(data models.CurriculumData, className string) export.Dataset {
	var standards models.TargetHourTable
	if snap, err := s.reference.Snapshot(); err == nil {
		standards = snap.Data.Standards
	}

	dataset := export.Dataset{
		Title:    documentTitle,
		Subtitle: fmt.Sprintf("%s - %s", data.Subject, data.Phase),
		Headers:  []string{colClass, colNo, colElement, colOutcome, colObjective, colActivity, colHours, colDate},
		Widths: map[string]float64{
			colClass: 0.7, colNo: 0.35, colElement: 1, colOutcome: 2,
			colObjective: 2, colActivity: 2.4, colHours: 0.5, colDate: 1.3,
		},
		Emphasis: map[int]bool{},
	}

	classes := data.Classes()
	if className != "" {
		classes = []string{className}
	}
	for _, cls := range classes {
		hasData := false
		for ei, el := range data.Elements {
			alloc, ok := allocationFor(el, cls)
			if !ok {
				continue
			}
			hasData = true
			firstOfElement := true
			for _, group := range objectiveGroups(alloc) {
				items := group.Items
				if len(items) == 0 {
					items = []models.PathwayItem{{Activity: notGeneratedText, HoursLabel: "-"}}
				}
				for ii, item := range items {
					row := map[string]string{
						colClass:    cls,
						colActivity: item.Activity,
						colHours:    item.HoursLabel,
						colDate:     "-",
					}
					if item.PlanDate != nil {
						row[colDate] = planner.LongDate(*item.PlanDate)
					}
					if firstOfElement {
						row[colNo] = fmt.Sprintf("%d", ei+1)
						row[colElement] = el.Name
						row[colOutcome] = el.LearningOutcome
						firstOfElement = false
					}
					if ii == 0 {
						row[colObjective] = group.Objective
					}
					dataset.Rows = append(dataset.Rows, row)
				}
			}
		}
		if !hasData {
			continue
		}
		target := "N/A"
		if res, ok := planner.ResolveTarget(standards, data.Subject, cls); ok {
			target = fmt.Sprintf("%d", res.Target)
		}
		dataset.Emphasis[len(dataset.Rows)] = true
		dataset.Rows = append(dataset.Rows, map[string]string{
			colClass:    cls,
			colActivity: totalRowLabel,
			colHours:    fmt.Sprintf("%d JP (Target Min: %s JP)", data.TotalHours(cls), target),
		})
	}
	return dataset
}

func allocationFor(el models.Element, className string) (models.ClassAllocation, bool) {
	for _, alloc := range el.Allocations {
		if alloc.ClassName == className {
			return alloc, true
		}
	}
	return models.ClassAllocation{}, false
}

func objectiveGroups(alloc models.ClassAllocation) []models.ObjectiveGroup {
	if len(alloc.Pathway) > 0 {
		return alloc.Pathway
	}
	groups := make([]models.ObjectiveGroup, len(alloc.Objectives))
	for i, objective := range alloc.Objectives {
		groups[i] = models.ObjectiveGroup{Objective: objective}
	}
	return groups
}

func (s *ExportService) page(names ...string) export.Page {
	for _, name := range append(names, s.cfg.DefaultPaperSize) {
		if size, ok := models.PaperSizeByName(name); ok {
			return export.Page{Name: size.Name, WidthMM: size.WidthMM, HeightMM: size.HeightMM}
		}
	}
	return export.PageA4
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob, data models.CurriculumData) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	parts := []string{"ATP", sanitizeFilename(data.Subject), sanitizeFilename(data.Phase)}
	if job.ClassName != "" {
		parts = append(parts, sanitizeFilename(job.ClassName))
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.Join(parts, "_"), timestamp, job.ID[:min(8, len(job.ID))], job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "(", "", ")", "")
	result := replacer.Replace(raw)
	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
