package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jviitor13/rodocheck/internal/models"
)

func TestChat_CreatesSessionAndStoresTurns(t *testing.T) {
	db := setupTestDB(t)
	gateway := newTestGateway(db, &stubProvider{
		name:  "openai",
		model: "gpt-3.5-turbo",
		reply: &providerReply{Text: "Veja o dashboard.", Usage: TokenUsage{InputTokens: 10, OutputTokens: 5}},
	})
	svc := NewSessionService(db, NewAssistantService(gateway))

	resp, err := svc.Chat(context.Background(), &ChatRequest{Query: "me mostre o painel"}, 1)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("a new session id should be generated")
	}
	if resp.Action != ActionNavigate || resp.Payload != "/dashboard" {
		t.Errorf("got %s/%s, want navigate to /dashboard", resp.Action, resp.Payload)
	}

	messages, err := svc.ListMessages(resp.SessionID, 1)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want user + assistant", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "me mostre o painel" {
		t.Errorf("first turn = %s %q", messages[0].Role, messages[0].Content)
	}
	if messages[1].Role != "assistant" || messages[1].Content != "Veja o dashboard." {
		t.Errorf("second turn = %s %q", messages[1].Role, messages[1].Content)
	}
}

func TestChat_ReusesExistingSession(t *testing.T) {
	db := setupTestDB(t)
	gateway := newTestGateway(db, &stubProvider{
		name:  "openai",
		model: "gpt-3.5-turbo",
		reply: &providerReply{Text: "Certo."},
	})
	svc := NewSessionService(db, NewAssistantService(gateway))

	first, err := svc.Chat(context.Background(), &ChatRequest{Query: "olá"}, 1)
	if err != nil {
		t.Fatalf("first Chat: %v", err)
	}
	second, err := svc.Chat(context.Background(), &ChatRequest{SessionID: first.SessionID, Query: "e agora?"}, 1)
	if err != nil {
		t.Fatalf("second Chat: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %s -> %s", first.SessionID, second.SessionID)
	}

	sessions, err := svc.ListSessions(1)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("sessions = %d, want 1", len(sessions))
	}

	messages, _ := svc.ListMessages(first.SessionID, 1)
	if len(messages) != 4 {
		t.Errorf("messages = %d, want 4", len(messages))
	}
}

func TestChat_KeepsUserTurnOnFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db, NewAssistantService(newTestGateway(db)))

	_, err := svc.Chat(context.Background(), &ChatRequest{Query: "olá"}, 1)
	if !errors.Is(err, ErrNoAIServiceConfigured) {
		t.Fatalf("err = %v, want ErrNoAIServiceConfigured", err)
	}

	var messages []models.AssistantMessage
	db.Order("created_at ASC, id ASC").Find(&messages)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want user + system error", len(messages))
	}
	if messages[0].Role != "user" {
		t.Errorf("first turn role = %s", messages[0].Role)
	}
	if messages[1].Role != "system" {
		t.Errorf("second turn role = %s", messages[1].Role)
	}
}

func TestListMessages_WrongUser(t *testing.T) {
	db := setupTestDB(t)
	gateway := newTestGateway(db, &stubProvider{name: "openai", model: "gpt-3.5-turbo", reply: &providerReply{Text: "Oi."}})
	svc := NewSessionService(db, NewAssistantService(gateway))

	resp, err := svc.Chat(context.Background(), &ChatRequest{Query: "olá"}, 1)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, err := svc.ListMessages(resp.SessionID, 2); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ListMessages = %v, want ErrSessionNotFound", err)
	}
}

func TestCreateSession(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db, NewAssistantService(newTestGateway(db)))

	session, err := svc.CreateSession(1)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.SessionID == "" {
		t.Error("a session id should be generated")
	}
	if !session.IsActive {
		t.Error("a new session should be active")
	}

	messages, err := svc.ListMessages(session.SessionID, 1)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("messages = %d, want an empty conversation", len(messages))
	}
}

func TestCloseSession(t *testing.T) {
	db := setupTestDB(t)
	gateway := newTestGateway(db, &stubProvider{name: "openai", model: "gpt-3.5-turbo", reply: &providerReply{Text: "Oi."}})
	svc := NewSessionService(db, NewAssistantService(gateway))

	resp, err := svc.Chat(context.Background(), &ChatRequest{Query: "olá"}, 1)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if err := svc.CloseSession(resp.SessionID, 1); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	var session models.AssistantSession
	db.Where("session_id = ?", resp.SessionID).First(&session)
	if session.IsActive {
		t.Error("session should be inactive after close")
	}
}
