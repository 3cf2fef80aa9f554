package service

import (
	"context"
	"time"

	"ai-trendboard-be/internal/constant"
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/store"
	"ai-trendboard-be/pkg/table"
)

type IChatService interface {
	GetHistory(ctx context.Context, sessionID string) (*dto.GetChatHistoryResponse, error)
	Send(ctx context.Context, sessionID string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GenerateImage(ctx context.Context, sessionID string, request *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	provider    llm.Provider
	logger      logger.ILogger
}

func NewChatService(sessionRepo *memory.SessionRepository, provider llm.Provider, log logger.ILogger) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		provider:    provider,
		logger:      log,
	}
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) (*dto.GetChatHistoryResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}

	messages := make([]dto.ChatMessageDTO, 0, len(session.Transcript))
	for _, m := range session.Transcript {
		messages = append(messages, toChatMessageDTO(m))
	}
	return &dto.GetChatHistoryResponse{Messages: messages}, nil
}

// Send appends the user message to the transcript, calls the chat
// completion with the full transcript and appends the reply. When the
// request names a product row, that row's image rides along with the
// user message.
func (s *chatService) Send(ctx context.Context, sessionID string, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.APIKey == "" {
		return nil, dto.ErrNoAPIKey
	}

	imageURL := ""
	if request.RowIndex != nil {
		if session.Table == nil {
			return nil, dto.ErrNoTable
		}
		if *request.RowIndex >= session.Table.Len() {
			return nil, dto.ErrRowOutOfRange
		}
		imageURL = session.Table.Get(*request.RowIndex, table.ColImageURL)
	}

	sent := store.ChatMessage{
		Role:      store.RoleUser,
		Content:   request.Message,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}

	history := make([]llm.Message, 0, len(session.Transcript)+2)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: constant.ChatSystemPrompt})
	for _, m := range session.Transcript {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content, ImageURL: m.ImageURL})
	}
	history = append(history, llm.Message{Role: llm.RoleUser, Content: sent.Content, ImageURL: sent.ImageURL})

	replyText, err := s.provider.Chat(ctx, history, llm.WithAPIKey(session.APIKey))
	if err != nil {
		s.logger.Error("Chat", "Completion failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return nil, err
	}

	reply := store.ChatMessage{
		Role:      store.RoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now(),
	}

	session.Transcript = append(session.Transcript, sent, reply)
	s.sessionRepo.Save(session)

	sentDTO := toChatMessageDTO(sent)
	replyDTO := toChatMessageDTO(reply)
	return &dto.SendChatResponse{Sent: &sentDTO, Reply: &replyDTO}, nil
}

// GenerateImage calls the image endpoint and records prompt and result
// in the transcript.
func (s *chatService) GenerateImage(ctx context.Context, sessionID string, request *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return nil, dto.ErrSessionNotFound
	}
	if session.APIKey == "" {
		return nil, dto.ErrNoAPIKey
	}

	imageURL, err := s.provider.GenerateImage(ctx, request.Prompt, llm.WithAPIKey(session.APIKey))
	if err != nil {
		s.logger.Error("Chat", "Image generation failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return nil, err
	}

	session.Transcript = append(session.Transcript,
		store.ChatMessage{Role: store.RoleUser, Content: request.Prompt, CreatedAt: time.Now()},
		store.ChatMessage{Role: store.RoleAssistant, Content: "Generated image", ImageURL: imageURL, CreatedAt: time.Now()},
	)
	s.sessionRepo.Save(session)

	return &dto.GenerateImageResponse{ImageURL: imageURL}, nil
}

func toChatMessageDTO(m store.ChatMessage) dto.ChatMessageDTO {
	return dto.ChatMessageDTO{
		Role:      m.Role,
		Content:   m.Content,
		ImageURL:  m.ImageURL,
		CreatedAt: m.CreatedAt,
	}
}
