package service

import (
	"context"
	"fmt"

	"ai-trendboard-be/internal/constant"
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/enrich"
	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/table"
	"ai-trendboard-be/pkg/trend"
)

type ITrendService interface {
	Run(ctx context.Context, sessionID string, request *dto.RunTrendRequest) (*dto.RunTrendResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.GetTrendsResponse, error)
	ExportCSV(ctx context.Context, sessionID string) ([]byte, error)
}

type trendService struct {
	sessionRepo    *memory.SessionRepository
	provider       llm.Provider
	publisher      IPublisherService
	logger         logger.ILogger
	defaultWorkers int
}

func NewTrendService(
	sessionRepo *memory.SessionRepository,
	provider llm.Provider,
	publisher IPublisherService,
	log logger.ILogger,
	defaultWorkers int,
) ITrendService {
	return &trendService{
		sessionRepo:    sessionRepo,
		provider:       provider,
		publisher:      publisher,
		logger:         log,
		defaultWorkers: defaultWorkers,
	}
}

// Run summarizes the per-category trend over the rows passing the rank
// filter. The resulting table fully replaces the previous one; a failed
// category is reported instead of merged.
func (s *trendService) Run(ctx context.Context, sessionID string, request *dto.RunTrendRequest) (*dto.RunTrendResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.Table == nil {
		return nil, dto.ErrNoTable
	}
	if session.APIKey == "" {
		return nil, dto.ErrNoAPIKey
	}

	t := session.Table
	apiKey := session.APIKey

	summarizer := func(ctx context.Context, category, payload string) (string, error) {
		history := []llm.Message{
			{Role: llm.RoleSystem, Content: constant.TrendSummarySystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Category: %s\n\nProduct descriptions:\n%s", category, payload)},
		}
		return s.provider.Chat(ctx, history, llm.WithAPIKey(apiKey))
	}

	workers := s.defaultWorkers
	if request.Concurrency > 0 {
		workers = request.Concurrency
	}

	summaries, results := trend.Summarize(ctx, t,
		func(row int) bool { return rankAtMost(t, row, request.TopRank) },
		workers,
		summarizer,
		func(res enrich.Result, p enrich.Progress) {
			publishProgress(ctx, s.publisher, s.logger, sessionID, "trend", p)
		},
	)

	session.Trends = summaries
	s.sessionRepo.Save(session)

	response := &dto.RunTrendResponse{Categories: len(results)}
	for _, res := range results {
		if res.Err != nil {
			response.Failed = append(response.Failed, dto.CategoryError{Category: res.Key, Error: res.Err.Error()})
			continue
		}
		response.Summarized++
	}

	s.logger.Info("Trend", "Summary run finished", map[string]interface{}{
		"session_id": sessionID,
		"categories": response.Categories,
		"failed":     len(response.Failed),
	})
	return response, nil
}

func (s *trendService) Get(ctx context.Context, sessionID string) (*dto.GetTrendsResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.Trends == nil {
		return nil, dto.ErrNoTrends
	}
	return &dto.GetTrendsResponse{
		Table:    session.Trends,
		RowCount: session.Trends.Len(),
	}, nil
}

func (s *trendService) ExportCSV(ctx context.Context, sessionID string) ([]byte, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.Trends == nil {
		return nil, dto.ErrNoTrends
	}
	return table.EncodeCSV(session.Trends)
}
