package service

import (
	"context"
	"encoding/json"
	"strconv"

	"ai-trendboard-be/internal/constant"
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/enrich"
	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/table"
)

type IEnrichmentService interface {
	Run(ctx context.Context, sessionID string, request *dto.RunEnrichmentRequest) (*dto.RunEnrichmentResponse, error)
	Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
}

type enrichmentService struct {
	sessionRepo    *memory.SessionRepository
	provider       llm.Provider
	publisher      IPublisherService
	progress       IProgressService
	logger         logger.ILogger
	defaultWorkers int
}

func NewEnrichmentService(
	sessionRepo *memory.SessionRepository,
	provider llm.Provider,
	publisher IPublisherService,
	progress IProgressService,
	log logger.ILogger,
	defaultWorkers int,
) IEnrichmentService {
	return &enrichmentService{
		sessionRepo:    sessionRepo,
		provider:       provider,
		publisher:      publisher,
		progress:       progress,
		logger:         log,
		defaultWorkers: defaultWorkers,
	}
}

// Run dispatches one image-description work unit per selected row and
// blocks until the whole batch joined. Only the description cell of
// selected rows is ever written; a failed unit leaves its row's
// description untouched and is reported per row instead.
func (s *enrichmentService) Run(ctx context.Context, sessionID string, request *dto.RunEnrichmentRequest) (*dto.RunEnrichmentResponse, error) {
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
	t.EnsureColumn(table.ColDescription)

	units := make([]enrich.Unit, 0, t.Len())
	for i := range t.Rows {
		if !rankAtMost(t, i, request.TopRank) {
			continue
		}
		units = append(units, enrich.Unit{
			Key:     strconv.Itoa(i),
			Payload: t.Get(i, table.ColImageURL),
		})
	}

	s.logger.Info("Enrichment", "Batch dispatched", map[string]interface{}{
		"session_id": sessionID,
		"selected":   len(units),
		"top_rank":   request.TopRank,
	})

	apiKey := session.APIKey
	work := func(ctx context.Context, unit enrich.Unit) (string, error) {
		history := []llm.Message{
			{Role: llm.RoleSystem, Content: constant.ImageDescriptionSystemPrompt},
			{Role: llm.RoleUser, Content: constant.ImageDescriptionUserPrompt, ImageURL: unit.Payload},
		}
		return s.provider.Chat(ctx, history, llm.WithAPIKey(apiKey))
	}

	// onComplete runs serialized: the merge into the shared table and
	// the progress publication need no extra locking here.
	onComplete := func(res enrich.Result, p enrich.Progress) {
		if res.Err == nil {
			row, _ := strconv.Atoi(res.Key)
			if err := t.Set(row, table.ColDescription, res.Value); err != nil {
				s.logger.Error("Enrichment", "Merge failed", map[string]interface{}{"row": res.Key, "error": err.Error()})
			}
		}
		publishProgress(ctx, s.publisher, s.logger, sessionID, "enrichment", p)
	}

	results := enrich.Run(ctx, units, s.workers(request.Concurrency), work, onComplete)

	response := &dto.RunEnrichmentResponse{Selected: len(units)}
	for _, res := range results {
		if res.Err != nil {
			row, _ := strconv.Atoi(res.Key)
			response.Failed = append(response.Failed, dto.RowError{Row: row, Error: res.Err.Error()})
			continue
		}
		response.Enriched++
	}

	if len(units) > 0 {
		session.Progress = 1
	}
	s.sessionRepo.Save(session)

	s.logger.Info("Enrichment", "Batch joined", map[string]interface{}{
		"session_id": sessionID,
		"enriched":   response.Enriched,
		"failed":     len(response.Failed),
	})
	return response, nil
}

func (s *enrichmentService) Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	if _, ok := s.sessionRepo.Get(sessionID); !ok {
		return nil, dto.ErrSessionNotFound
	}
	return &dto.ProgressResponse{Fraction: s.progress.Fraction(sessionID)}, nil
}

func (s *enrichmentService) workers(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.defaultWorkers > 0 {
		return s.defaultWorkers
	}
	return enrich.DefaultMaxConcurrent
}

// publishProgress is shared by the enrichment and trend batches.
func publishProgress(ctx context.Context, publisher IPublisherService, log logger.ILogger, sessionID, batch string, p enrich.Progress) {
	if publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.ProgressEvent{
		SessionID: sessionID,
		Batch:     batch,
		Completed: p.Completed,
		Total:     p.Total,
		Fraction:  p.Fraction,
	})
	if err != nil {
		return
	}
	if err := publisher.Publish(ctx, payload); err != nil {
		log.Warn("Progress", "Progress publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// rankAtMost is the rank filter: keep rows whose within-category rank
// parses and is at most topRank. topRank <= 0 keeps every row.
func rankAtMost(t *table.Table, row, topRank int) bool {
	if topRank <= 0 {
		return true
	}
	rank, err := strconv.Atoi(t.Get(row, table.ColCategoryRank))
	if err != nil {
		return false
	}
	return rank <= topRank
}
