package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

type stubChatService struct {
	gotUsername string
	gotModel    string
	gotMessages []domain.ChatMessage
	reply       domain.ChatMessage
	err         error
}

func (s *stubChatService) Ask(_ context.Context, username, model string, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	s.gotUsername, s.gotModel, s.gotMessages = username, model, messages
	if s.err != nil {
		return domain.ChatMessage{}, s.err
	}
	return s.reply, nil
}

func TestChatHandler_Ask(t *testing.T) {
	svc := &stubChatService{reply: domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: "revenue is up"}}
	h := NewChatHandler(svc)

	body := `{"messages":[{"role":"user","content":"how were sales?"}]}`
	c, rec := newTestContext(http.MethodPost, "/v1/chat", body)
	withSession(c, "alice", domain.RoleUser)

	if err := h.Ask(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotUsername != "alice" {
		t.Fatalf("expected session username, got %q", svc.gotUsername)
	}
	if len(svc.gotMessages) != 1 || svc.gotMessages[0].Content != "how were sales?" {
		t.Fatalf("messages not passed through: %+v", svc.gotMessages)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Message.Content != "revenue is up" {
		t.Fatalf("unexpected reply: %+v", resp.Message)
	}
}

func TestChatHandler_Ask_ModelOverride(t *testing.T) {
	svc := &stubChatService{reply: domain.ChatMessage{Role: domain.ChatRoleAssistant}}
	h := NewChatHandler(svc)

	body := `{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hi"}]}`
	c, _ := newTestContext(http.MethodPost, "/v1/chat", body)
	withSession(c, "alice", domain.RoleUser)

	if err := h.Ask(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.gotModel != "gpt-4o-mini" {
		t.Fatalf("model not passed through, got %q", svc.gotModel)
	}
}

func TestChatHandler_Ask_Validation(t *testing.T) {
	h := NewChatHandler(&stubChatService{})

	bodies := []string{
		`{"messages":[]}`,
		`{"messages":[{"role":"robot","content":"hi"}]}`,
		`{"messages":[{"role":"user"}]}`,
	}
	for _, body := range bodies {
		c, _ := newTestContext(http.MethodPost, "/v1/chat", body)
		withSession(c, "alice", domain.RoleUser)

		err := h.Ask(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestChatHandler_Ask_NoSession(t *testing.T) {
	h := NewChatHandler(&stubChatService{})

	c, _ := newTestContext(http.MethodPost, "/v1/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	err := h.Ask(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestChatHandler_Ask_CollaboratorError(t *testing.T) {
	svc := &stubChatService{err: domain.ErrCollaborator}
	h := NewChatHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/v1/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	withSession(c, "alice", domain.RoleUser)

	if err := h.Ask(c); !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("expected ErrCollaborator passthrough, got %v", err)
	}
}
