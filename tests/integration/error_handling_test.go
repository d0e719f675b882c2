//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"
)

func TestUnauthenticatedProfile(t *testing.T) {
	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/profile", "", map[string]string{
		"email": "a@x.com", "examCode": "Z9", "firstName": "A", "lastName": "B",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "unauthenticated" {
		t.Fatalf("expected unauthenticated, got %v", body["error"])
	}
}

func TestInvalidToken(t *testing.T) {
	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/exams", "not-a-token", map[string]string{
		"email": "a@x.com", "examCode": "Z9", "language": "go",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMissingArgument(t *testing.T) {
	user := createRegisteredUser(t, baseURL(), uniqueEmail("missing"), "testpassword123")

	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/exams", user.AccessToken, map[string]string{
		"email": "a@x.com", "examCode": "Z9",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "invalid_argument" || body["field"] != "language" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestInvalidJSON(t *testing.T) {
	user := createRegisteredUser(t, baseURL(), uniqueEmail("badjson"), "testpassword123")

	req, _ := http.NewRequest(http.MethodPost, baseURL()+"/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+user.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
