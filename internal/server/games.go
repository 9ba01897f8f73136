package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"scory/internal/apperr"
	"scory/internal/db"
)

// Shared mutation core. Every score and status change, whether it arrives
// over HTTP or a realtime session, goes through these functions so the two
// entry points share one authorization and state machine. Mutations take the
// per-game lock and broadcast only after the persist succeeds.

const (
	roomCodeBytes       = 3
	maxRoomCodeAttempts = 32
	defaultEventLimit   = 50
	defaultScoreEvent   = "score"
	emptyEventData      = "{}"
)

func newRoomCode() string {
	buf := make([]byte, roomCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return strings.ToUpper(fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff))
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

func (s *Server) createGame(userID uint, gameType, name string) (*db.Game, error) {
	now := time.Now().UTC()
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		game := db.Game{
			GameType:     gameType,
			Name:         name,
			RoomCode:     newRoomCode(),
			Status:       db.StatusWaiting,
			CreatorID:    userID,
			CurrentScore: initialScore(gameType),
			Participants: []db.Participant{
				{UserID: userID, Role: db.RoleCreator, JoinedAt: now},
			},
		}
		err := s.db.Create(&game).Error
		if err == nil {
			log.Printf("game created game_id=%d room_code=%s game_type=%s creator_id=%d",
				game.ID, game.RoomCode, game.GameType, userID)
			return s.findGame(game.ID)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Room code collided with an existing game; draw a new one.
			continue
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create game", err)
	}
	return nil, apperr.New(apperr.KindConflict, "could not allocate a unique room code")
}

func (s *Server) findGame(gameID uint) (*db.Game, error) {
	var game db.Game
	err := s.db.
		Preload("Creator").
		Preload("Participants").
		Preload("Participants.User").
		First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "game not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load game", err)
	}
	return &game, nil
}

type gameFilter struct {
	Status   string
	GameType string
	Page     int
	Limit    int
}

func (s *Server) listGames(filter gameFilter) ([]db.Game, int64, error) {
	query := s.db.Model(&db.Game{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.GameType != "" {
		query = query.Where("game_type = ?", filter.GameType)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to count games", err)
	}
	var games []db.Game
	err := query.
		Preload("Creator").
		Preload("Participants").
		Preload("Participants.User").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list games", err)
	}
	return games, total, nil
}

func (s *Server) joinByRoomCode(roomCode string, userID uint) (*db.Game, error) {
	code := strings.ToUpper(strings.TrimSpace(roomCode))
	var game db.Game
	err := s.db.Preload("Participants").Where("room_code = ?", code).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "game not found with this room code")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up room code", err)
	}
	if _, ok := userRole(&game, userID); ok {
		return nil, apperr.New(apperr.KindConflict, "you have already joined this game")
	}
	if db.IsTerminalStatus(game.Status) {
		return nil, apperr.New(apperr.KindInvalidState, fmt.Sprintf("cannot join a %s game", game.Status))
	}
	participant := db.Participant{
		GameID:   game.ID,
		UserID:   userID,
		Role:     db.RoleViewer,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.KindConflict, "you have already joined this game")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to join game", err)
	}
	log.Printf("participant joined game_id=%d user_id=%d role=%s", game.ID, userID, db.RoleViewer)
	return s.findGame(game.ID)
}

func (s *Server) leaveGame(gameID, userID uint) error {
	game, err := s.findGame(gameID)
	if err != nil {
		return err
	}
	role, ok := userRole(game, userID)
	if !ok {
		// Leaving a game never joined is a no-op, matching join idempotence.
		return nil
	}
	if !allowed(role, actionLeaveGame) {
		return apperr.New(apperr.KindForbidden, "creator cannot leave the game; delete it instead")
	}
	err = s.db.Where("game_id = ? AND user_id = ?", gameID, userID).Delete(&db.Participant{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to leave game", err)
	}
	log.Printf("participant left game_id=%d user_id=%d", gameID, userID)
	return nil
}

var legalTransitions = map[string][]string{
	db.StatusWaiting: {db.StatusLive, db.StatusCancelled},
	db.StatusLive:    {db.StatusCompleted, db.StatusCancelled},
}

func legalTransition(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Server) updateStatus(gameID, userID uint, newStatus string) (*db.Game, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	role, _ := userRole(game, userID)
	if !allowed(role, actionUpdateStatus) {
		return nil, apperr.New(apperr.KindForbidden, "only the creator can update game status")
	}
	if !legalTransition(game.Status, newStatus) {
		return nil, apperr.New(apperr.KindInvalidTransition,
			fmt.Sprintf("cannot change status from %s to %s", game.Status, newStatus))
	}
	now := time.Now().UTC()
	updates := map[string]any{"status": newStatus}
	if newStatus == db.StatusLive && game.StartTime == nil {
		updates["start_time"] = now
	}
	if db.IsTerminalStatus(newStatus) && game.EndTime == nil {
		updates["end_time"] = now
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", gameID).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update game status", err)
	}
	log.Printf("game status updated game_id=%d status=%s user_id=%d", gameID, newStatus, userID)

	s.rooms.Broadcast(gameID, envelope(eventGameStatusUpdated, statusUpdatedPayload{
		GameID: gameID,
		Status: newStatus,
	}), nil)
	return s.findGame(gameID)
}

type scoreChange struct {
	CurrentScore json.RawMessage
	EventType    string
	EventData    json.RawMessage
}

// updateScore runs the full authorize -> persist -> broadcast sequence for a
// score mutation. exclude is the originating realtime session, if any, which
// has already applied the change optimistically and is skipped on fan-out.
func (s *Server) updateScore(gameID, userID uint, change scoreChange, exclude *session) (*db.Game, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	role, _ := userRole(game, userID)
	if !allowed(role, actionUpdateScore) {
		return nil, apperr.New(apperr.KindForbidden, "you do not have permission to update scores")
	}
	if game.Status != db.StatusLive {
		return nil, apperr.New(apperr.KindInvalidState, "can only update scores for live games")
	}
	if err := validateScore(game.GameType, change.CurrentScore); err != nil {
		return nil, err
	}

	eventType := change.EventType
	if eventType == "" {
		eventType = defaultScoreEvent
	}
	eventData := change.EventData
	if len(eventData) == 0 {
		eventData = json.RawMessage(emptyEventData)
	}
	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Game{}).Where("id = ?", gameID).
			Update("current_score", datatypes.JSON(change.CurrentScore)).Error; err != nil {
			return err
		}
		return tx.Create(&db.ScoreEvent{
			GameID:    gameID,
			UserID:    userID,
			EventType: eventType,
			EventData: datatypes.JSON(eventData),
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist score update", err)
	}
	log.Printf("score updated game_id=%d user_id=%d event_type=%s", gameID, userID, eventType)

	s.rooms.Broadcast(gameID, envelope(eventScoreUpdated, scoreUpdatedPayload{
		GameID:       gameID,
		CurrentScore: change.CurrentScore,
		EventType:    eventType,
		EventData:    eventData,
		ActorID:      userID,
		Timestamp:    now,
	}), exclude)

	game.CurrentScore = datatypes.JSON(change.CurrentScore)
	return game, nil
}

func (s *Server) listEvents(gameID uint, limit int) ([]db.ScoreEvent, error) {
	if _, err := s.findGame(gameID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}
	var events []db.ScoreEvent
	err := s.db.
		Preload("User").
		Where("game_id = ?", gameID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list events", err)
	}
	return events, nil
}

func (s *Server) deleteGame(gameID, userID uint) error {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	game, err := s.findGame(gameID)
	if err != nil {
		return err
	}
	role, _ := userRole(game, userID)
	if !allowed(role, actionDeleteGame) {
		return apperr.New(apperr.KindForbidden, "only the creator can delete the game")
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&db.ScoreEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&db.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Game{}, gameID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete game", err)
	}
	log.Printf("game deleted game_id=%d user_id=%d", gameID, userID)

	s.rooms.Broadcast(gameID, envelope(eventGameDeleted, gameDeletedPayload{GameID: gameID}), nil)
	return nil
}
