//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type userInfo struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func makeAuthenticatedRequest(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeUser(t *testing.T, resp *http.Response) userInfo {
	t.Helper()
	var out struct {
		UserID       string `json:"user_id"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode auth response failed: %v", err)
	}
	return userInfo{ID: out.UserID, AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
}

func createRegisteredUser(t *testing.T, base, email, password string) userInfo {
	t.Helper()

	resp := makeAuthenticatedRequest(t, http.MethodPost, base+"/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status: %d", resp.StatusCode)
	}
	return decodeUser(t, resp)
}

func loginUser(t *testing.T, base, email, password string) userInfo {
	t.Helper()

	resp := makeAuthenticatedRequest(t, http.MethodPost, base+"/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}
	return decodeUser(t, resp)
}

func connectDB(t *testing.T) *pgx.Conn {
	t.Helper()

	dsn := os.Getenv("INTEGRATION_PG_DSN")
	if dsn == "" {
		t.Skip("INTEGRATION_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(context.Background()) })
	return conn
}

// waitForStatus polls until the account-created handler has opened the
// candidate record, returning its exam code and status.
func waitForStatus(t *testing.T, conn *pgx.Conn, email string, minStatus int16) (string, int16) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		var (
			code   string
			status int16
		)
		err := conn.QueryRow(context.Background(),
			`SELECT exam_code, screening_status FROM candidate_status WHERE email = $1`, email).Scan(&code, &status)
		if err == nil && status >= minStatus {
			return code, status
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("candidate %s never reached status %d", email, minStatus)
	return "", 0
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return out
}
