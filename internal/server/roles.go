package server

import "scory/internal/db"

// Actions a participant can attempt against a game. The set is closed; both
// the HTTP handlers and the realtime hub authorize through allowed so the two
// entry points cannot drift apart.
type action int

const (
	actionUpdateScore action = iota
	actionUpdateStatus
	actionDeleteGame
	actionLeaveGame
)

func allowed(role string, act action) bool {
	switch act {
	case actionUpdateScore:
		return role == db.RoleCreator || role == db.RoleScorer
	case actionUpdateStatus, actionDeleteGame:
		return role == db.RoleCreator
	case actionLeaveGame:
		// The creator cannot leave; they must delete the game instead.
		return role == db.RoleScorer || role == db.RoleViewer
	}
	return false
}

func userRole(game *db.Game, userID uint) (string, bool) {
	for i := range game.Participants {
		if game.Participants[i].UserID == userID {
			return game.Participants[i].Role, true
		}
	}
	return "", false
}
