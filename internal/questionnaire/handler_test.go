package questionnaire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupQuestionnaireRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	handler := NewHandler(NewService(repo))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, repo
}

func submitFlags(t *testing.T, router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/questionnaire/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSubmitCreatesQuestionnaire(t *testing.T) {
	router, repo := setupQuestionnaireRouter(t)
	userID := "11111111-1111-1111-1111-111111111111"

	resp := submitFlags(t, router, map[string]any{
		"userId": userID,
		"fever":  true,
		"nausea": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Message       string        `json:"message"`
		Questionnaire Questionnaire `json:"questionnaire"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "Questionnaire saved successfully" {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if !out.Questionnaire.Fever || !out.Questionnaire.Nausea || out.Questionnaire.BMI {
		t.Fatalf("unexpected flags %+v", out.Questionnaire)
	}

	if _, err := repo.GetByUser(context.Background(), userID); err != nil {
		t.Fatalf("expected stored questionnaire: %v", err)
	}
}

func TestSubmitTwiceKeepsOneRowPerUser(t *testing.T) {
	router, repo := setupQuestionnaireRouter(t)
	userID := "22222222-2222-2222-2222-222222222222"

	submitFlags(t, router, map[string]any{"userId": userID, "fever": true})
	resp := submitFlags(t, router, map[string]any{"userId": userID, "fatigue": true})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	q, err := repo.GetByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("get questionnaire: %v", err)
	}
	if q.Fever {
		t.Fatal("expected second submission to overwrite fever=false")
	}
	if !q.Fatigue {
		t.Fatal("expected second submission to set fatigue")
	}
}

func TestSubmitRequiresUserID(t *testing.T) {
	router, _ := setupQuestionnaireRouter(t)

	resp := submitFlags(t, router, map[string]any{"fever": true})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
