package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/pkg/utils"
)

func TestIssueToken(t *testing.T) {
	handler := NewAuthHandler("test-secret", time.Hour)
	app := fiber.New()
	app.Post("/jwt", handler.IssueToken)

	resp, body := doRequest(t, app, http.MethodPost, "/jwt", `{"email": "Student@Example.com", "name": "Student"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in response, got %v", body)
	}

	claims, err := utils.ValidateToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "student@example.com" {
		t.Fatalf("expected normalized email, got %q", claims.Email)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}

	resp, _ = doRequest(t, app, http.MethodPost, "/jwt", `{"email": "not-an-email"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
