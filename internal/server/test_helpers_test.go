package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scory/internal/config"
	"scory/internal/db"
)

var testDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:scorytest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("skipping test; sqlite unavailable: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := New(newTestDB(t), config.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

// registerUser creates a user through the public API and returns its access
// token and id.
func registerUser(t *testing.T, ts *httptest.Server, username string) (string, uint) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    strings.ToLower(username) + "@example.com",
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status %d, got %d", username, http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["accessToken"].(string)
	if token == "" {
		t.Fatalf("register %s: missing access token", username)
	}
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(float64)
	if id == 0 {
		t.Fatalf("register %s: missing user id", username)
	}
	return token, uint(id)
}

// createGame creates a game through the public API and returns its id and
// room code.
func createGame(t *testing.T, ts *httptest.Server, token, gameType, name string) (uint, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", token, map[string]string{
		"gameType": gameType,
		"name":     name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	game, _ := body["game"].(map[string]any)
	id, _ := game["id"].(float64)
	code, _ := game["roomCode"].(string)
	if id == 0 || code == "" {
		t.Fatalf("create game: missing id or room code in %v", body)
	}
	return uint(id), code
}

func setGameStatus(t *testing.T, ts *httptest.Server, token string, gameID uint, status string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPut, fmt.Sprintf("/api/games/%d/status", gameID), token, map[string]string{
		"status": status,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set status %s: expected status %d, got %d", status, http.StatusOK, resp.StatusCode)
	}
}

func joinByCode(t *testing.T, ts *httptest.Server, token, roomCode string) *http.Response {
	t.Helper()
	return doRequest(t, ts, http.MethodPost, "/api/games/join", token, map[string]string{
		"roomCode": roomCode,
	})
}
