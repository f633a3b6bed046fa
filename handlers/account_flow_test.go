package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/accounthub/backend/models"
	"github.com/accounthub/backend/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// End-to-end account lifecycle against a real store: register, login,
// read and update the profile, then prove the password swap took.
func TestAccountFlow(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	pub := &mockPublisher{}
	router := newTestRouter(store.NewUsers(db), testTokens(), pub)

	// Register
	w := doRequest(router, http.MethodPost, "/register", map[string]string{
		"email": "alice@x.com", "password": "pw1", "full_name": "Alice",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d; body: %s", w.Code, w.Body.String())
	}

	// Registering the same email twice must fail
	w = doRequest(router, http.MethodPost, "/register", map[string]string{
		"email": "alice@x.com", "password": "pw1", "full_name": "Alice",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400 got %d", w.Code)
	}

	// Login
	w = doRequest(router, http.MethodPost, "/login", map[string]string{
		"email": "alice@x.com", "password": "pw1",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if loginResp.AccessToken == "" {
		t.Fatal("expected a bearer token")
	}

	// Profile
	w = doRequest(router, http.MethodGet, "/profile", nil, loginResp.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	var profile map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile["email"] != "alice@x.com" || profile["full_name"] != "Alice" {
		t.Fatalf("unexpected profile: %v", profile)
	}

	// Update full name and password
	w = doRequest(router, http.MethodPut, "/profile", map[string]string{
		"full_name": "Alice B", "password": "pw2",
	}, loginResp.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode updated profile: %v", err)
	}
	if profile["full_name"] != "Alice B" {
		t.Fatalf("full name not updated: %v", profile)
	}

	// Old password must no longer verify
	w = doRequest(router, http.MethodPost, "/login", map[string]string{
		"email": "alice@x.com", "password": "pw1",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password login: expected 401 got %d", w.Code)
	}

	// New password must
	w = doRequest(router, http.MethodPost, "/login", map[string]string{
		"email": "alice@x.com", "password": "pw2",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("new password login: expected 200 got %d; body: %s", w.Code, w.Body.String())
	}

	// One durable registration, one notice
	if len(pub.messages) != 1 {
		t.Errorf("expected exactly one notice, got %d: %v", len(pub.messages), pub.messages)
	}
}
