package main

import (
	"net/http"
	"testing"

	"github.com/nchua/liftquest/internal/e2etest"
	"github.com/nchua/liftquest/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LIFTQUEST_SQLITE_URL":
		return ":memory:", true
	case "LIFTQUEST_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

func Test_application_healthy(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	var payload struct {
		Status string `json:"status"`
	}
	status, err := server.Client().GetJSON(ctx, "/api/healthy", &payload)
	if err != nil {
		t.Fatalf("Failed to get healthy endpoint: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if payload.Status != "ok" {
		t.Errorf("payload status = %q, want ok", payload.Status)
	}
}

func Test_application_auth(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	t.Run("Unauthenticated request is rejected", func(t *testing.T) {
		var errPayload struct {
			Error string `json:"error"`
		}
		status, err := client.GetJSON(ctx, "/api/goals", &errPayload)
		if err != nil {
			t.Fatalf("Failed to get goals: %v", err)
		}
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
		}
		if errPayload.Error == "" {
			t.Error("expected an error message in the response body")
		}
	})

	t.Run("Login opens a session", func(t *testing.T) {
		if err := client.Login(ctx, "Casey"); err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		var goals []map[string]any
		status, err := client.GetJSON(ctx, "/api/goals", &goals)
		if err != nil {
			t.Fatalf("Failed to get goals: %v", err)
		}
		if status != http.StatusOK {
			t.Errorf("status = %d, want %d", status, http.StatusOK)
		}
		if len(goals) != 0 {
			t.Errorf("fresh user has %d goals, want 0", len(goals))
		}
	})

	t.Run("Logout closes the session", func(t *testing.T) {
		if err := client.Logout(ctx); err != nil {
			t.Fatalf("Failed to logout: %v", err)
		}
		status, err := client.GetJSON(ctx, "/api/goals", nil)
		if err != nil {
			t.Fatalf("Failed to get goals: %v", err)
		}
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
		}
	})

	t.Run("Login without a display name is rejected", func(t *testing.T) {
		status, err := client.PostJSON(ctx, "/api/login", map[string]string{"display_name": "  "}, nil)
		if err != nil {
			t.Fatalf("Failed to post login: %v", err)
		}
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
		}
	})
}

func Test_crossOriginProtection(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	maliciousClient, err := e2etest.NewClientWithSecFetchSite(server.URL(), "cross-site")
	if err != nil {
		t.Fatalf("Failed to create malicious client: %v", err)
	}

	status, err := maliciousClient.PostJSON(ctx, "/api/login", map[string]string{"display_name": "Mallory"}, nil)
	if err != nil {
		t.Fatalf("Failed to post login: %v", err)
	}
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want %d", status, http.StatusForbidden)
	}
}
