package server

import (
	"testing"

	"scory/internal/db"
)

func TestAllowedMatrix(t *testing.T) {
	cases := []struct {
		role string
		act  action
		want bool
	}{
		{db.RoleCreator, actionUpdateScore, true},
		{db.RoleScorer, actionUpdateScore, true},
		{db.RoleViewer, actionUpdateScore, false},
		{"", actionUpdateScore, false},

		{db.RoleCreator, actionUpdateStatus, true},
		{db.RoleScorer, actionUpdateStatus, false},
		{db.RoleViewer, actionUpdateStatus, false},

		{db.RoleCreator, actionDeleteGame, true},
		{db.RoleScorer, actionDeleteGame, false},
		{db.RoleViewer, actionDeleteGame, false},

		{db.RoleCreator, actionLeaveGame, false},
		{db.RoleScorer, actionLeaveGame, true},
		{db.RoleViewer, actionLeaveGame, true},
	}
	for _, tc := range cases {
		if got := allowed(tc.role, tc.act); got != tc.want {
			t.Fatalf("allowed(%q, %d) = %v, want %v", tc.role, tc.act, got, tc.want)
		}
	}
}

func TestLegalTransitions(t *testing.T) {
	legal := [][2]string{
		{db.StatusWaiting, db.StatusLive},
		{db.StatusWaiting, db.StatusCancelled},
		{db.StatusLive, db.StatusCompleted},
		{db.StatusLive, db.StatusCancelled},
	}
	for _, pair := range legal {
		if !legalTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be legal", pair[0], pair[1])
		}
	}
	illegal := [][2]string{
		{db.StatusWaiting, db.StatusCompleted},
		{db.StatusWaiting, db.StatusWaiting},
		{db.StatusLive, db.StatusLive},
		{db.StatusLive, db.StatusWaiting},
		{db.StatusCompleted, db.StatusLive},
		{db.StatusCompleted, db.StatusWaiting},
		{db.StatusCancelled, db.StatusLive},
	}
	for _, pair := range illegal {
		if legalTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be illegal", pair[0], pair[1])
		}
	}
}

func TestUserRole(t *testing.T) {
	game := &db.Game{
		Participants: []db.Participant{
			{UserID: 1, Role: db.RoleCreator},
			{UserID: 2, Role: db.RoleViewer},
		},
	}
	if role, ok := userRole(game, 1); !ok || role != db.RoleCreator {
		t.Fatalf("expected creator for user 1, got %q %v", role, ok)
	}
	if _, ok := userRole(game, 3); ok {
		t.Fatal("expected no role for user 3")
	}
}
