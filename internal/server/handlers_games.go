package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	GameType string `json:"gameType" binding:"required,gametype"`
	Name     string `json:"name" binding:"required,min=3,max=100"`
}

type joinGameRequest struct {
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,gamestatus"`
}

type updateScoreRequest struct {
	CurrentScore json.RawMessage `json:"currentScore" binding:"required"`
	EventType    string          `json:"eventType"`
	EventData    json.RawMessage `json:"eventData"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if !s.bindJSON(c, &req) {
		return
	}
	game, err := s.createGame(currentUserID(c), req.GameType, strings.TrimSpace(req.Name))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "game created successfully",
		"game":    gameJSON(game),
	})
}

func (s *Server) handleListGames(c *gin.Context) {
	page, limit := parsePagination(c)
	games, total, err := s.listGames(gameFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		GameType: strings.TrimSpace(c.Query("gameType")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(games))
	for i := range games {
		list = append(list, gameJSON(&games[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"games":      list,
		"pagination": paginationData(page, limit, total),
	})
}

func (s *Server) handleGetGame(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	game, err := s.findGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    gameJSON(game),
	})
}

func (s *Server) handleJoinGame(c *gin.Context) {
	var req joinGameRequest
	if !s.bindJSON(c, &req) {
		return
	}
	game, err := s.joinByRoomCode(req.RoomCode, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "joined game successfully",
		"game":    gameJSON(game),
	})
}

func (s *Server) handleLeaveGame(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.leaveGame(gameID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "left game successfully",
	})
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateStatusRequest
	if !s.bindJSON(c, &req) {
		return
	}
	game, err := s.updateStatus(gameID, currentUserID(c), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "game status updated successfully",
		"game":    gameJSON(game),
	})
}

func (s *Server) handleUpdateScore(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateScoreRequest
	if !s.bindJSON(c, &req) {
		return
	}
	game, err := s.updateScore(gameID, currentUserID(c), scoreChange{
		CurrentScore: req.CurrentScore,
		EventType:    req.EventType,
		EventData:    req.EventData,
	}, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "score updated successfully",
		"currentScore": json.RawMessage(game.CurrentScore),
	})
}

func (s *Server) handleListEvents(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	events, err := s.listEvents(gameID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(events))
	for i := range events {
		list = append(list, eventJSON(&events[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  list,
	})
}

func (s *Server) handleDeleteGame(c *gin.Context) {
	gameID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.deleteGame(gameID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "game deleted successfully",
	})
}
