package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/guide"
	"github.com/hampi-heritage/quest/backend/internal/handler"
)

// mockGuideServicer is a test double for handler.GuideServicer.
type mockGuideServicer struct {
	chat func(ctx context.Context, actorID uuid.UUID, history []guide.Message) (string, error)
}

func (m *mockGuideServicer) Chat(ctx context.Context, actorID uuid.UUID, history []guide.Message) (string, error) {
	return m.chat(ctx, actorID, history)
}

var _ handler.GuideServicer = (*mockGuideServicer)(nil)

func TestGuideChat_200(t *testing.T) {
	userID := uuid.New()
	svc := &mockGuideServicer{
		chat: func(_ context.Context, actorID uuid.UUID, history []guide.Message) (string, error) {
			assert.Equal(t, userID, actorID)
			require.Len(t, history, 1)
			assert.Equal(t, guide.RoleUser, history[0].Role)
			return "Start with the Virupaksha Temple at sunrise.", nil
		},
	}
	srv := handler.NewServer(nil, nil, nil, nil, svc)

	body := jsonBody(t, handler.GuideChatRequest{
		Messages: []guide.Message{{Role: guide.RoleUser, Content: "Where should I start?"}},
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/guide/chat", body), userID)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.GuideChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Reply, "Virupaksha")
}

func TestGuideChat_200_Anonymous(t *testing.T) {
	svc := &mockGuideServicer{
		chat: func(_ context.Context, actorID uuid.UUID, _ []guide.Message) (string, error) {
			assert.Equal(t, uuid.Nil, actorID)
			return "Welcome to Hampi!", nil
		},
	}
	srv := handler.NewServer(nil, nil, nil, nil, svc)

	body := jsonBody(t, handler.GuideChatRequest{
		Messages: []guide.Message{{Role: guide.RoleUser, Content: "Hi"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/guide/chat", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuideChat_422_EmptyHistory(t *testing.T) {
	svc := &mockGuideServicer{
		chat: func(_ context.Context, _ uuid.UUID, _ []guide.Message) (string, error) {
			return "", fmt.Errorf("service.GuideService.Chat: %w: at least one message is required", domain.ErrValidation)
		},
	}
	srv := handler.NewServer(nil, nil, nil, nil, svc)

	body := jsonBody(t, handler.GuideChatRequest{})
	req := httptest.NewRequest(http.MethodPost, "/guide/chat", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGuideChat_429_RateLimited(t *testing.T) {
	svc := &mockGuideServicer{
		chat: func(_ context.Context, _ uuid.UUID, _ []guide.Message) (string, error) {
			return "", fmt.Errorf("service.GuideService.Chat: %w", domain.ErrRateLimited)
		},
	}
	srv := handler.NewServer(nil, nil, nil, nil, svc)

	body := jsonBody(t, handler.GuideChatRequest{
		Messages: []guide.Message{{Role: guide.RoleUser, Content: "Hi"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/guide/chat", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "rate_limited", resp.Error.Code)
}

func TestGuideChat_500_UpstreamFailure(t *testing.T) {
	svc := &mockGuideServicer{
		chat: func(_ context.Context, _ uuid.UUID, _ []guide.Message) (string, error) {
			return "", fmt.Errorf("service.GuideService.Chat: upstream status 500")
		},
	}
	srv := handler.NewServer(nil, nil, nil, nil, svc)

	body := jsonBody(t, handler.GuideChatRequest{
		Messages: []guide.Message{{Role: guide.RoleUser, Content: "Hi"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/guide/chat", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "internal_error", resp.Error.Code)
}
