package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/spreadsheet"
	"ai-trendboard-be/pkg/table"
)

type ICatalogService interface {
	UploadTabular(ctx context.Context, sessionID, fileName string, file io.Reader) (*dto.UploadResponse, error)
	UploadLegacy(ctx context.Context, sessionID, fileName, layout string, file io.Reader) (*dto.UploadResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.GetCatalogResponse, error)
	Reset(ctx context.Context, sessionID string) error
	ExportCSV(ctx context.Context, sessionID string) ([]byte, error)
}

type catalogService struct {
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewCatalogService(sessionRepo *memory.SessionRepository, log logger.ILogger) ICatalogService {
	return &catalogService{
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

// UploadTabular parses a CSV spreadsheet, validates the product schema
// and replaces the session's table wholesale. Any failure aborts the
// upload; no partial table is retained.
func (s *catalogService) UploadTabular(ctx context.Context, sessionID, fileName string, file io.Reader) (*dto.UploadResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}

	t, err := table.DecodeCSV(file)
	if err != nil {
		return nil, &dto.UploadError{Reason: "malformed spreadsheet", Err: err}
	}

	if missing := t.MissingColumns(table.RequiredUploadColumns); len(missing) > 0 {
		return nil, &dto.UploadError{Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	// Year values arrive with locale thousands separators; a value that
	// still fails to parse as an integer is fatal for the whole upload.
	for i := range t.Rows {
		year, err := coerceYear(t.Get(i, table.ColYear))
		if err != nil {
			return nil, &dto.UploadError{Reason: fmt.Sprintf("row %d: bad year value", i), Err: err}
		}
		if err := t.Set(i, table.ColYear, strconv.Itoa(year)); err != nil {
			return nil, &dto.UploadError{Reason: "normalize year", Err: err}
		}
	}

	session.Table = t
	session.StagedUploads = append(session.StagedUploads, fileName)
	s.sessionRepo.Save(session)

	s.logger.Info("Catalog", "Tabular upload accepted", map[string]interface{}{
		"file": fileName,
		"rows": t.Len(),
	})

	return &dto.UploadResponse{
		FileName: fileName,
		RowCount: t.Len(),
		Columns:  t.Columns,
	}, nil
}

// UploadLegacy runs the SpreadsheetML extractor for one of the seven
// known layouts. Unimplemented layouts fail loudly.
func (s *catalogService) UploadLegacy(ctx context.Context, sessionID, fileName, layoutName string, file io.Reader) (*dto.UploadResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}

	layout, err := spreadsheet.ParseLayout(layoutName)
	if err != nil {
		return nil, &dto.UploadError{Reason: "unknown layout", Err: err}
	}

	t, err := spreadsheet.Extract(file, layout)
	if err != nil {
		return nil, err
	}

	session.Table = t
	session.StagedUploads = append(session.StagedUploads, fileName)
	s.sessionRepo.Save(session)

	s.logger.Info("Catalog", "Legacy upload accepted", map[string]interface{}{
		"file":   fileName,
		"layout": layout.String(),
		"rows":   t.Len(),
	})

	return &dto.UploadResponse{
		FileName: fileName,
		RowCount: t.Len(),
		Columns:  t.Columns,
	}, nil
}

func (s *catalogService) Get(ctx context.Context, sessionID string) (*dto.GetCatalogResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.Table == nil {
		return nil, dto.ErrNoTable
	}
	return &dto.GetCatalogResponse{
		Table:    session.Table,
		RowCount: session.Table.Len(),
	}, nil
}

// Reset clears the table and the derived trend summaries wholesale.
func (s *catalogService) Reset(ctx context.Context, sessionID string) error {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return dto.ErrSessionNotFound
	}
	session.Table = nil
	session.Trends = nil
	session.Progress = 0
	s.sessionRepo.Save(session)
	return nil
}

func (s *catalogService) ExportCSV(ctx context.Context, sessionID string) ([]byte, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.Table == nil {
		return nil, dto.ErrNoTable
	}
	return table.EncodeCSV(session.Table)
}

// coerceYear strips thousands separators ("2.023", "2,023") and parses
// the remainder as an integer.
func coerceYear(raw string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return 0, fmt.Errorf("empty year")
	}
	return strconv.Atoi(cleaned)
}
