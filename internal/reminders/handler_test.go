package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labreport-backend/internal/users"
)

func setupReminderRouter(t *testing.T) (*gin.Engine, *MemoryRepo, users.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	user := seedUser(t, userRepo)

	router := gin.New()
	NewHandler(NewService(repo, userRepo)).RegisterRoutes(router.Group("/api"))
	return router, repo, user
}

func postReminder(t *testing.T, router *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateReminder(t *testing.T) {
	router, repo, user := setupReminderRouter(t)

	due := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	resp := postReminder(t, router, map[string]string{
		"userId":  user.ID,
		"message": "blood test follow-up",
		"date":    due,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created Reminder
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.Message != "blood test follow-up" {
		t.Fatalf("unexpected reminder %+v", created)
	}
	if created.SentAt != nil {
		t.Fatal("new reminder must be unsent")
	}

	stored, err := repo.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored reminder, got %d", len(stored))
	}
}

func TestCreateReminderRejectsBadDate(t *testing.T) {
	router, _, user := setupReminderRouter(t)

	resp := postReminder(t, router, map[string]string{
		"userId":  user.ID,
		"message": "m",
		"date":    "next tuesday",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreateReminderUnknownUser(t *testing.T) {
	router, _, _ := setupReminderRouter(t)

	resp := postReminder(t, router, map[string]string{
		"userId":  uuid.NewString(),
		"message": "m",
		"date":    time.Now().UTC().Format(time.RFC3339),
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListRemindersByUser(t *testing.T) {
	router, repo, user := setupReminderRouter(t)

	now := time.Now().UTC()
	for i := 0; i < 2; i++ {
		if err := repo.Create(context.Background(), Reminder{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Message:   "m",
			DueAt:     now.Add(time.Duration(i) * time.Hour),
			CreatedAt: now,
		}); err != nil {
			t.Fatalf("seed reminder: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reminders/"+user.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out []Reminder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(out))
	}
}
