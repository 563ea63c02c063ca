package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/export"
	"github.com/noah-isme/edu-console-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sheets ...export.Dataset) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

// ExportSource is a snapshot of sessions to render.
type ExportSource struct {
	Title    string
	Sessions []scheduling.Session
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Location  *time.Location
	ProductID string
}

// ExportFile is a rendered document.
type ExportFile struct {
	Format      string
	FileName    string
	ContentType string
	Data        []byte
}

// ExportResult captures a published export.
type ExportResult struct {
	ExportID     string
	RelativePath string
	Token        string
	URL          string
	Format       string
	FileName     string
	ExpiresAt    time.Time
}

// ExportService renders schedules and persists published files.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	ics     icsRenderer
	signer  *storage.SignedURLSigner
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. storage and signer may be nil
// when publishing is disabled.
func NewExportService(files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ExportService{
		storage: files,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		xlsx:    export.NewXLSXExporter(),
		ics:     export.NewICSExporter(cfg.ProductID),
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Render produces the document for the requested format.
func (s *ExportService) Render(src *ExportSource, format string) (*ExportFile, error) {
	if src == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = dto.ExportFormatCSV
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case dto.ExportFormatCSV:
		data, err = s.csv.Render(sessionDataset(src))
		contentType = "text/csv"
	case dto.ExportFormatPDF:
		data, err = s.pdf.Render(sessionDataset(src))
		contentType = "application/pdf"
	case dto.ExportFormatXLSX:
		data, err = s.xlsx.Render(sessionDataset(src), roomDataset(src))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case dto.ExportFormatICS:
		data, err = s.ics.Render(src.Title, s.calendarEvents(src))
		contentType = "text/calendar"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.RecordExport(format)
	return &ExportFile{
		Format:      format,
		FileName:    fmt.Sprintf("%s.%s", sanitizeFilename(src.Title), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Publish renders and stores the export, returning a signed download link.
func (s *ExportService) Publish(ctx context.Context, src *ExportSource, format string) (*ExportResult, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "export publishing is not configured")
	}
	file, err := s.Render(src, format)
	if err != nil {
		return nil, err
	}
	exportID := uuid.NewString()
	timestamp := time.Now().UTC().Format("20060102_150405")
	relPath, err := s.storage.Save(fmt.Sprintf("schedules/%s_%s.%s", timestamp, exportID, file.Format), file.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("schedule export published",
		zap.String("export_id", exportID),
		zap.String("format", file.Format),
		zap.String("path", relPath),
	)
	return &ExportResult{
		ExportID:     exportID,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/schedules/exports/%s", prefix, token),
		Format:       file.Format,
		FileName:     file.FileName,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string) (storage.SignedToken, error) {
	if s.signer == nil {
		return storage.SignedToken{}, appErrors.Clone(appErrors.ErrUnavailable, "export publishing is not configured")
	}
	return s.signer.Parse(token, false)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "export publishing is not configured")
	}
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) calendarEvents(src *ExportSource) []export.CalendarEvent {
	events := make([]export.CalendarEvent, 0, len(src.Sessions))
	for _, session := range sortedSessions(src.Sessions) {
		start, errStart := scheduling.ParseClock(session.StartTime)
		end, errEnd := scheduling.ParseClock(session.EndTime)
		if errStart != nil || errEnd != nil || end <= start {
			s.logger.Debug("skipping session without valid times", zap.String("session_id", session.ID))
			continue
		}
		day := scheduling.NormalizeDate(session.Date)
		startAt := time.Date(day.Year(), day.Month(), day.Day(), 0, int(start), 0, 0, s.cfg.Location)
		endAt := time.Date(day.Year(), day.Month(), day.Day(), 0, int(end), 0, 0, s.cfg.Location)

		summary := session.ClassName
		if summary == "" {
			summary = session.ClassID
		}
		if session.LessonTopic != nil {
			summary = fmt.Sprintf("%s: %s", summary, *session.LessonTopic)
		}
		var description string
		if session.TeacherName != "" {
			description = "Teacher: " + session.TeacherName
		}
		events = append(events, export.CalendarEvent{
			UID:         session.ID + "@edu-console",
			Summary:     summary,
			Location:    session.RoomName,
			Description: description,
			Start:       startAt,
			End:         endAt,
		})
	}
	return events
}

func sessionDataset(src *ExportSource) export.Dataset {
	data := export.Dataset{
		Title:   "Sessions",
		Headers: []string{"Date", "Start", "End", "Slots", "Class", "Teacher", "Room", "Topic"},
	}
	for _, session := range sortedSessions(src.Sessions) {
		topic := ""
		if session.LessonTopic != nil {
			topic = *session.LessonTopic
		}
		data.Rows = append(data.Rows, []string{
			scheduling.FormatDate(session.Date),
			session.StartTime,
			session.EndTime,
			joinSlots(session.TimeSlots),
			session.ClassName,
			session.TeacherName,
			session.RoomName,
			topic,
		})
	}
	return data
}

func roomDataset(src *ExportSource) export.Dataset {
	view := scheduling.RoomGrid(src.Sessions, sessionDays(src.Sessions))
	data := export.Dataset{Title: "Rooms", Headers: []string{"Room"}}
	for _, day := range view.Days {
		data.Headers = append(data.Headers, scheduling.FormatDate(day))
	}
	for _, row := range view.Rows {
		record := []string{row.RoomName}
		for _, cell := range row.Cells {
			lines := make([]string, 0, len(cell.Entries))
			for _, entry := range cell.Entries {
				lines = append(lines, fmt.Sprintf("%s-%s %s", entry.Session.StartTime, entry.Session.EndTime, entry.Session.ClassName))
			}
			record = append(record, strings.Join(lines, "\n"))
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func sessionDays(sessions []scheduling.Session) []time.Time {
	seen := make(map[string]time.Time)
	for _, session := range sessions {
		day := scheduling.NormalizeDate(session.Date)
		seen[scheduling.FormatDate(day)] = day
	}
	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func sortedSessions(sessions []scheduling.Session) []scheduling.Session {
	out := make([]scheduling.Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Anchor() != out[j].Anchor() {
			return out[i].Anchor() < out[j].Anchor()
		}
		return out[i].ClassName < out[j].ClassName
	})
	return out
}

func joinSlots(slots []int) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = strconv.Itoa(slot)
	}
	return strings.Join(parts, ",")
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "schedule"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "(", "", ")", "")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
