package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/gradebook-api/internal/models"
	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
	"github.com/classtrack/gradebook-api/pkg/export"
	"github.com/classtrack/gradebook-api/pkg/storage"
)

// Export formats supported by report rendering.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportResult describes a rendered report and its signed download token.
type ExportResult struct {
	ExportID  string    `json:"export_id"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService renders gradebook reports to CSV or PDF, stores them and
// hands out signed download tokens.
type ReportService struct {
	summaries classSummarizer
	roster    rosterReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(summaries classSummarizer, roster rosterReader, csv *export.CSVExporter, pdf *export.PDFExporter, files *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{summaries: summaries, roster: roster, csv: csv, pdf: pdf, files: files, signer: signer, logger: logger}
}

// ClassReport renders the roster-wide grade summary table.
func (s *ReportService) ClassReport(ctx context.Context, classID, format string) (*ExportResult, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class required")
	}
	summaries, err := s.summaries.ClassSummaries(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.FullName
	}

	data := export.Dataset{
		Headers: []string{"Student", "Overall", "Letter", "GPA", "Completed", "Late", "Missing", "Trend"},
	}
	for _, summary := range summaries {
		name := names[summary.StudentID]
		if name == "" {
			name = summary.StudentID
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":   name,
			"Overall":   fmt.Sprintf("%.1f%%", summary.OverallPercentage),
			"Letter":    summary.OverallLetter,
			"GPA":       fmt.Sprintf("%.1f", summary.GPA),
			"Completed": fmt.Sprintf("%d", summary.CompletedCount),
			"Late":      fmt.Sprintf("%d", summary.LateCount),
			"Missing":   fmt.Sprintf("%d", summary.MissingCount),
			"Trend":     string(summary.Trend),
		})
	}

	title := fmt.Sprintf("Gradebook Report %s", classID)
	return s.store(classID, "gradebook", format, title, data)
}

// CurveAudit renders the before/after adjustment table of a curve
// application.
func (s *ReportService) CurveAudit(ctx context.Context, result *models.CurveResult, format string) (*ExportResult, error) {
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "curve result required")
	}
	data := export.Dataset{
		Headers: []string{"Student", "Assignment", "Previous Points", "New Points", "Previous %", "New %"},
	}
	for _, adj := range result.Adjustments {
		data.Rows = append(data.Rows, map[string]string{
			"Student":         adj.StudentID,
			"Assignment":      adj.AssignmentID,
			"Previous Points": fmt.Sprintf("%.2f", adj.PreviousPoints),
			"New Points":      fmt.Sprintf("%.2f", adj.NewPoints),
			"Previous %":      fmt.Sprintf("%.1f", adj.PreviousPercentage),
			"New %":           fmt.Sprintf("%.1f", adj.NewPercentage),
		})
	}

	title := fmt.Sprintf("Curve Audit %s (%s %.1f)", result.ClassID, result.Type, result.Amount)
	return s.store(result.ClassID, "curve_audit", format, title, data)
}

// Download validates a signed token and opens the stored file.
func (s *ReportService) Download(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
	}
	return file, path.Base(relPath), nil
}

func (s *ReportService) store(classID, kind, format, title string, data export.Dataset) (*ExportResult, error) {
	var (
		payload []byte
		err     error
	)
	switch format {
	case FormatCSV, "":
		format = FormatCSV
		payload, err = s.csv.Render(data)
	case FormatPDF:
		payload, err = s.pdf.Render(data, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	exportID := uuid.NewString()
	relPath := fmt.Sprintf("%s/%s_%s.%s", classID, kind, exportID, format)
	if _, err := s.files.Save(relPath, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}

	s.logger.Info("report rendered", zap.String("class_id", classID), zap.String("kind", kind), zap.String("format", format))
	return &ExportResult{
		ExportID:  exportID,
		FileName:  path.Base(relPath),
		Format:    format,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
