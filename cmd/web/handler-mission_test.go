package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/nchua/liftquest/internal/e2etest"
	"github.com/nchua/liftquest/internal/testhelpers"
)

type missionResponse struct {
	Mission *missionDetailView `json:"mission"`
	Reason  string             `json:"reason"`
}

// The mission endpoint runs on the wall clock, so these tests assert the
// invariants that hold on any day of the week rather than pinning the mint
// schedule.
func Test_application_mission(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()
	if err = client.Login(ctx, "Casey"); err != nil {
		t.Fatalf("Failed to login: %v", err)
	}

	t.Run("No goals means no mission", func(t *testing.T) {
		var resp missionResponse
		status, err := client.GetJSON(ctx, "/api/mission", &resp)
		if err != nil {
			t.Fatalf("Failed to get mission: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if resp.Mission != nil {
			t.Errorf("mission minted without goals: %+v", resp.Mission)
		}
		if resp.Reason == "" {
			t.Error("expected a reason when no mission exists")
		}
	})

	t.Run("With a goal", func(t *testing.T) {
		if _, status := createGoal(t, client, "Bench Press", 225); status != http.StatusCreated {
			t.Fatalf("create goal status = %d", status)
		}

		var resp missionResponse
		status, err := client.GetJSON(ctx, "/api/mission", &resp)
		if err != nil {
			t.Fatalf("Failed to get mission: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if resp.Mission == nil {
			if resp.Reason == "" {
				t.Error("expected a reason when no mission exists")
			}
			return
		}

		mission := resp.Mission
		if mission.Status != "offered" {
			t.Errorf("mission status = %q, want offered", mission.Status)
		}
		if mission.TrainingSplit != "single_focus" {
			t.Errorf("training split = %q, want single_focus", mission.TrainingSplit)
		}
		if len(mission.Workouts) == 0 {
			t.Fatal("mission has no planned workouts")
		}
		for _, workout := range mission.Workouts {
			if len(workout.Prescriptions) == 0 {
				t.Errorf("day %d has no prescriptions", workout.DayNumber)
			}
		}

		var accepted missionDetailView
		status, err = client.PostJSON(ctx, acceptPath(mission.ID), nil, &accepted)
		if err != nil {
			t.Fatalf("Failed to accept mission: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("accept status = %d, want %d", status, http.StatusOK)
		}
		if accepted.Status != "accepted" || accepted.AcceptedAt == nil {
			t.Errorf("accepted mission = %+v", accepted)
		}

		status, err = client.PostJSON(ctx, acceptPath(mission.ID), nil, nil)
		if err != nil {
			t.Fatalf("Failed to accept mission twice: %v", err)
		}
		if status != http.StatusConflict {
			t.Errorf("double accept status = %d, want %d", status, http.StatusConflict)
		}
	})

	t.Run("Unknown mission", func(t *testing.T) {
		status, err := client.PostJSON(ctx, "/api/missions/999999/accept", nil, nil)
		if err != nil {
			t.Fatalf("Failed to post accept: %v", err)
		}
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want %d", status, http.StatusNotFound)
		}
	})
}

func acceptPath(missionID int64) string {
	return fmt.Sprintf("/api/missions/%d/accept", missionID)
}
