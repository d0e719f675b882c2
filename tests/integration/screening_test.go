//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"testing"
)

func TestScreeningFlow(t *testing.T) {
	conn := connectDB(t)
	email := uniqueEmail("candidate")
	user := createRegisteredUser(t, baseURL(), email, "testpassword123")

	code, status := waitForStatus(t, conn, email, 1)
	if status != 1 {
		t.Fatalf("expected registered status, got %d", status)
	}

	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/profile", user.AccessToken, map[string]string{
		"email": email, "examCode": code, "firstName": "Ada", "lastName": "Lovelace",
	})
	body := decodeBody(t, resp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["result"] != "Profile successfully updated" {
		t.Fatalf("save profile: %d %v", resp.StatusCode, body)
	}
	waitForStatus(t, conn, email, 2)

	resp = makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/exams", user.AccessToken, map[string]string{
		"email": email, "examCode": code, "language": "go",
	})
	body = decodeBody(t, resp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["result"] != "Exam successfully generated" {
		t.Fatalf("generate exam: %d %v", resp.StatusCode, body)
	}
	waitForStatus(t, conn, email, 3)

	if _, err := conn.Exec(context.Background(), `UPDATE exams SET exam_done = true WHERE email = $1`, email); err != nil {
		t.Fatalf("finish exam: %v", err)
	}
	waitForStatus(t, conn, email, 4)
}

func TestCodeMismatchIsRejected(t *testing.T) {
	conn := connectDB(t)
	email := uniqueEmail("mismatch")
	user := createRegisteredUser(t, baseURL(), email, "testpassword123")
	waitForStatus(t, conn, email, 1)

	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/profile", user.AccessToken, map[string]string{
		"email": email, "examCode": "WRONG", "firstName": "A", "lastName": "B",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "The exam code provided did not match our records" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	_, status := waitForStatus(t, conn, email, 1)
	if status != 1 {
		t.Fatalf("status changed to %d after mismatch", status)
	}
}
