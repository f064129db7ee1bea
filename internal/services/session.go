package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/pkg/logger"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionService struct {
	db        *gorm.DB
	assistant *AssistantService
}

func NewSessionService(db *gorm.DB, assistant *AssistantService) *SessionService {
	return &SessionService{db: db, assistant: assistant}
}

type ChatRequest struct {
	SessionID string         `json:"session_id"`
	Query     string         `json:"query" binding:"required"`
	Context   map[string]any `json:"context"`
}

type ChatResponse struct {
	SessionID      string  `json:"session_id"`
	Response       string  `json:"response"`
	Action         string  `json:"action"`
	Payload        string  `json:"payload,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
}

// messageMetadata is stored alongside assistant turns so the conversation
// can be replayed with its actions.
type messageMetadata struct {
	Action         string  `json:"action,omitempty"`
	Payload        string  `json:"payload,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Chat stores the user turn, asks the assistant and stores its reply. The
// user message is kept even when the AI call fails, with a system error
// turn recording what happened.
func (s *SessionService) Chat(ctx context.Context, req *ChatRequest, userID uint) (*ChatResponse, error) {
	session, err := s.getOrCreate(req.SessionID, userID)
	if err != nil {
		return nil, err
	}

	s.appendMessage(session.ID, "user", req.Query, nil)

	reply, err := s.assistant.Answer(ctx, req.Query, userID, req.Context)
	if err != nil {
		s.appendMessage(session.ID, "system", err.Error(), &messageMetadata{Error: err.Error()})
		return nil, err
	}

	s.appendMessage(session.ID, "assistant", reply.Response, &messageMetadata{
		Action:         reply.Action,
		Payload:        reply.Payload,
		ProcessingTime: reply.ProcessingTime,
	})

	return &ChatResponse{
		SessionID:      session.SessionID,
		Response:       reply.Response,
		Action:         reply.Action,
		Payload:        reply.Payload,
		ProcessingTime: reply.ProcessingTime,
	}, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *SessionService) ListSessions(userID uint) ([]models.AssistantSession, error) {
	var sessions []models.AssistantSession
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// CreateSession opens a fresh conversation for the user.
func (s *SessionService) CreateSession(userID uint) (*models.AssistantSession, error) {
	return s.getOrCreate("", userID)
}

// ListMessages returns the messages of one of the user's sessions in
// conversation order.
func (s *SessionService) ListMessages(sessionID string, userID uint) ([]models.AssistantMessage, error) {
	session, err := s.find(sessionID, userID)
	if err != nil {
		return nil, err
	}
	var messages []models.AssistantMessage
	err = s.db.Where("session_id = ?", session.ID).Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// CloseSession marks a session inactive. Messages are kept.
func (s *SessionService) CloseSession(sessionID string, userID uint) error {
	session, err := s.find(sessionID, userID)
	if err != nil {
		return err
	}
	return s.db.Model(session).Update("is_active", false).Error
}

func (s *SessionService) find(sessionID string, userID uint) (*models.AssistantSession, error) {
	var session models.AssistantSession
	err := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) getOrCreate(sessionID string, userID uint) (*models.AssistantSession, error) {
	if sessionID != "" {
		session, err := s.find(sessionID, userID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}
	session := models.AssistantSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		IsActive:  true,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) appendMessage(sessionID uint, role, content string, meta *messageMetadata) {
	msg := models.AssistantMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			msg.Metadata = string(raw)
		}
	}
	if err := s.db.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Uint("session_id", sessionID).Str("role", role).Msg("failed to store assistant message")
	}
}
