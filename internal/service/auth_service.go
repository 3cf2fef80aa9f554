package service

import (
	"context"
	"strings"
	"time"

	"ai-trendboard-be/internal/config"
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAuthService interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	SetAPIKey(ctx context.Context, sessionID string, request *dto.SetAPIKeyRequest) error
}

type authService struct {
	cfg         *config.Config
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewAuthService(cfg *config.Config, sessionRepo *memory.SessionRepository, log logger.ILogger) IAuthService {
	return &authService{
		cfg:         cfg,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

const sessionTokenTTL = 4 * time.Hour

// Login compares the submitted password with the shared dashboard
// secret. Rejection is silent: a warning in the log, no lockout, no
// backoff.
func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.Auth.DashboardPassword == "" || request.Password != s.cfg.Auth.DashboardPassword {
		s.logger.Warn("Auth", "Rejected login attempt", nil)
		return nil, dto.ErrInvalidPassword
	}

	session := &store.Session{
		ID:            uuid.New().String(),
		Authenticated: true,
		Transcript:    make([]store.ChatMessage, 0),
		StagedUploads: make([]string, 0),
		CreatedAt:     time.Now(),
	}
	s.sessionRepo.Save(session)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": session.ID,
		"exp":        time.Now().Add(sessionTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Auth.JwtSecret))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Auth", "Session created", map[string]interface{}{"session_id": session.ID})
	return &dto.LoginResponse{Token: signed}, nil
}

// SetAPIKey stores the per-session service key. Validation is a prefix
// check only; the key never leaves memory.
func (s *authService) SetAPIKey(ctx context.Context, sessionID string, request *dto.SetAPIKeyRequest) error {
	session, ok := s.sessionRepo.Get(sessionID)
	if !ok {
		return dto.ErrSessionNotFound
	}

	key := strings.TrimSpace(request.ApiKey)
	if !strings.HasPrefix(key, s.cfg.Auth.APIKeyPrefix) {
		return dto.ErrInvalidAPIKey
	}

	session.APIKey = key
	s.sessionRepo.Save(session)
	return nil
}
