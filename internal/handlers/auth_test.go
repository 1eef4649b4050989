package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "modernc.org/sqlite"

	"github.com/dataqueryai/dataquery/internal/auth"
	"github.com/dataqueryai/dataquery/internal/db"
	"github.com/dataqueryai/dataquery/internal/middleware"
	"github.com/dataqueryai/dataquery/internal/repo"
	"github.com/dataqueryai/dataquery/internal/session"
)

func newAuthHandler(database *sql.DB) *AuthHandler {
	return &AuthHandler{
		Auth:     auth.NewService(repo.NewAccountRepo(database)),
		Sessions: session.NewManager([]byte("test-secret"), time.Hour),
	}
}

func postBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(body)
}

func TestAuthHandler_Register(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("alice", auth.Digest("pw123"), "a@x.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/register", postBody(t, map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	}))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("Register status: got %d, want 201", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/register", postBody(t, map[string]string{
		"username": "bob", "email": "b@x.com", "password": "",
	}))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Register status: got %d, want 400", rr.Code)
	}
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Fields["password"] != "required" {
		t.Errorf("unexpected fields: %v", out.Fields)
	}
	// No store call may happen on invalid input.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAuthHandler_Register_Duplicate runs against real SQLite so the 409 is
// driven by the engine's primary-key constraint.
func TestAuthHandler_Register_Duplicate(t *testing.T) {
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()
	if err := db.Init(context.Background(), database); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	h := newAuthHandler(database)

	register := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/auth/register", postBody(t, map[string]string{
			"username": "alice", "email": "a@x.com", "password": "pw123",
		}))
		rr := httptest.NewRecorder()
		h.Register(rr, req)
		return rr
	}

	if rr := register(); rr.Code != http.StatusCreated {
		t.Fatalf("first register: got %d, want 201", rr.Code)
	}
	rr := register()
	if rr.Code != http.StatusConflict {
		t.Fatalf("second register: got %d, want 409", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "username already taken" {
		t.Errorf("unexpected error: %v", out["error"])
	}
}

func TestAuthHandler_Login(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	mock.ExpectQuery(`SELECT username, password_digest, email, created_at`).
		WithArgs("alice", auth.Digest("pw123")).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_digest", "email", "created_at"}).
			AddRow("alice", auth.Digest("pw123"), "a@x.com", "2025-03-01T12:00:00Z"))

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/login", postBody(t, map[string]string{
		"username": "alice", "password": "pw123",
	}))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Login status: got %d, want 200", rr.Code)
	}
	var out struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.Username != "alice" {
		t.Errorf("unexpected response: %+v", out)
	}

	// The issued token must verify as a logged-in session.
	sess, err := h.Sessions.Verify(out.Token)
	if err != nil || !sess.LoggedIn || sess.Username != "alice" {
		t.Errorf("token does not verify: sess=%+v err=%v", sess, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	mock.ExpectQuery(`SELECT username, password_digest, email, created_at`).
		WithArgs("nobody", auth.Digest("whatever")).
		WillReturnError(sql.ErrNoRows)

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/login", postBody(t, map[string]string{
		"username": "nobody", "password": "whatever",
	}))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "invalid credentials" {
		t.Errorf("unexpected error: %v", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BackendError(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	mock.ExpectQuery(`SELECT username, password_digest, email, created_at`).
		WillReturnError(errors.New("disk I/O error"))

	h := newAuthHandler(database)

	req := httptest.NewRequest("POST", "/auth/login", postBody(t, map[string]string{
		"username": "alice", "password": "pw123",
	}))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Login status: got %d, want 500", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	database, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()

	h := newAuthHandler(database)
	token, err := h.Sessions.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req = req.WithContext(middleware.WithToken(
		middleware.WithUsername(req.Context(), "alice"), token))
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Logout status: got %d, want 204", rr.Code)
	}
	if _, err := h.Sessions.Verify(token); err == nil {
		t.Error("token must be revoked after logout")
	}
}
