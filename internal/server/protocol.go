package server

import (
	"encoding/json"
	"time"
)

// Wire message types, client to server.
const (
	msgJoinGame    = "joinGame"
	msgLeaveGame   = "leaveGame"
	msgScoreUpdate = "scoreUpdate"
)

// Wire event types, server to room or session.
const (
	eventScoreUpdated      = "scoreUpdated"
	eventGameStatusUpdated = "gameStatusUpdated"
	eventGameDeleted       = "gameDeleted"
	eventPeerJoined        = "peerJoined"
	eventPeerLeft          = "peerLeft"
	eventError             = "error"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomRequest struct {
	GameID uint `json:"gameId"`
}

type scoreUpdateRequest struct {
	GameID       uint            `json:"gameId"`
	CurrentScore json.RawMessage `json:"currentScore"`
	EventType    string          `json:"eventType"`
	EventData    json.RawMessage `json:"eventData"`
}

type outboundEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func envelope(eventType string, payload any) outboundEvent {
	return outboundEvent{Type: eventType, Payload: payload}
}

type scoreUpdatedPayload struct {
	GameID       uint            `json:"gameId"`
	CurrentScore json.RawMessage `json:"currentScore"`
	EventType    string          `json:"eventType"`
	EventData    json.RawMessage `json:"eventData,omitempty"`
	ActorID      uint            `json:"actorId"`
	Timestamp    time.Time       `json:"timestamp"`
}

type statusUpdatedPayload struct {
	GameID uint   `json:"gameId"`
	Status string `json:"status"`
}

type gameDeletedPayload struct {
	GameID uint `json:"gameId"`
}

type peerPayload struct {
	ActorID uint `json:"actorId"`
}

type errorPayload struct {
	Message string `json:"message"`
}
