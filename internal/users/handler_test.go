package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	handler := NewHandler(NewService(repo, "test-secret"))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, repo
}

func signUp(t *testing.T, router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"email":    email,
		"password": password,
		"name":     "Test User",
		"age":      34,
		"gender":   "female",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSignUpCreatesUser(t *testing.T) {
	router, repo := setupAuthRouter(t)

	resp := signUp(t, router, "alice@example.com", "s3cret")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	raw := resp.Body.Bytes()
	var created struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Age   *int   `json:"age"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected user id in response")
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", created.Email)
	}
	if created.Age == nil || *created.Age != 34 {
		t.Fatalf("unexpected age %v", created.Age)
	}
	if bytes.Contains(raw, []byte("password")) {
		t.Fatal("response must not leak password material")
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "s3cret" {
		t.Fatal("expected password to be hashed")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	router, _ := setupAuthRouter(t)

	if resp := signUp(t, router, "bob@example.com", "pw1"); resp.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", resp.Code)
	}
	resp := signUp(t, router, "bob@example.com", "pw2")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	router, _ := setupAuthRouter(t)
	signUp(t, router, "carol@example.com", "hunter2")

	body, _ := json.Marshal(map[string]string{"email": "carol@example.com", "password": "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "Login successful" || out.Token == "" {
		t.Fatalf("unexpected login payload %+v", out)
	}
	if out.User.Email != "carol@example.com" {
		t.Fatalf("unexpected user %+v", out.User)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router, _ := setupAuthRouter(t)
	signUp(t, router, "dave@example.com", "correct")

	for _, creds := range []map[string]string{
		{"email": "dave@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "correct"},
	} {
		body, _ := json.Marshal(creds)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("creds %v: expected status 400, got %d", creds, resp.Code)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	router, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user/11111111-1111-1111-1111-111111111111", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
