package server

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"scory/internal/db"
)

func userJSON(user *db.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}

func participantJSON(participant *db.Participant) gin.H {
	return gin.H{
		"userId":   participant.UserID,
		"username": participant.User.Username,
		"role":     participant.Role,
		"joinedAt": participant.JoinedAt,
	}
}

func gameJSON(game *db.Game) gin.H {
	participants := make([]gin.H, 0, len(game.Participants))
	for i := range game.Participants {
		participants = append(participants, participantJSON(&game.Participants[i]))
	}
	return gin.H{
		"id":               game.ID,
		"gameType":         game.GameType,
		"name":             game.Name,
		"roomCode":         game.RoomCode,
		"status":           game.Status,
		"creator":          gin.H{"id": game.CreatorID, "username": game.Creator.Username},
		"participants":     participants,
		"participantCount": len(game.Participants),
		"currentScore":     json.RawMessage(game.CurrentScore),
		"startTime":        game.StartTime,
		"endTime":          game.EndTime,
		"createdAt":        game.CreatedAt,
		"updatedAt":        game.UpdatedAt,
	}
}

func eventJSON(event *db.ScoreEvent) gin.H {
	return gin.H{
		"id":        event.ID,
		"gameId":    event.GameID,
		"userId":    event.UserID,
		"username":  event.User.Username,
		"eventType": event.EventType,
		"eventData": json.RawMessage(event.EventData),
		"timestamp": event.CreatedAt,
	}
}
