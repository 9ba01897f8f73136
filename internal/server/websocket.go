package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"scory/internal/apperr"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 25 * time.Second
)

// session is one live, authenticated realtime connection. The bound user id
// is set at handshake and never changes. Outbound delivery runs on a single
// writer goroutine per session so one slow peer cannot stall a broadcast.
type session struct {
	id     string
	userID uint
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	// joined is guarded by the roomHub mutex.
	joined map[uint]struct{}
}

func newSession(userID uint, conn *websocket.Conn, buffer int) *session {
	return &session{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
		joined: make(map[uint]struct{}),
	}
}

// enqueue hands a marshaled event to the writer goroutine. A full buffer
// means the peer has stopped draining; the session is closed rather than
// letting it block everyone else.
func (sess *session) enqueue(data []byte) {
	select {
	case <-sess.done:
	case sess.send <- data:
	default:
		log.Printf("ws send buffer full, dropping session session=%s user_id=%d", sess.id, sess.userID)
		sess.close()
	}
}

func (sess *session) close() {
	select {
	case <-sess.done:
	default:
		close(sess.done)
		_ = sess.conn.Close()
	}
}

func (sess *session) sendEvent(eventType string, payload any) {
	data, err := json.Marshal(envelope(eventType, payload))
	if err != nil {
		return
	}
	sess.enqueue(data)
}

func (sess *session) sendError(err error) {
	message := "internal error"
	if kind := apperr.KindOf(err); kind != apperr.KindInternal {
		message = err.Error()
	}
	sess.sendEvent(eventError, errorPayload{Message: message})
}

// handleWebsocket authenticates the handshake and upgrades the connection.
// A bad or missing token refuses the connection before the upgrade; the
// session never reaches the authenticated state.
func (s *Server) handleWebsocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c.Request)
	}
	userID, err := s.tokens.VerifyAccess(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	upgrader := websocket.Upgrader{
		HandshakeTimeout: time.Duration(s.cfg.WSAuthTimeoutSeconds) * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	sess := newSession(userID, conn, s.cfg.WSSendBuffer)
	log.Printf("ws connected session=%s user_id=%d remote=%s", sess.id, userID, c.Request.RemoteAddr)

	go s.writeWS(sess)
	go s.readWS(sess)
}

func (s *Server) readWS(sess *session) {
	defer func() {
		sess.close()
		s.rooms.RemoveEverywhere(sess)
	}()
	_ = sess.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected session=%s user_id=%d error=%v", sess.id, sess.userID, err)
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.sendError(apperr.New(apperr.KindValidation, "malformed message"))
			continue
		}
		s.dispatchWS(sess, msg)
	}
}

func (s *Server) writeWS(sess *session) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		sess.close()
	}()
	for {
		select {
		case data := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sess.done:
			return
		}
	}
}

// dispatchWS handles one inbound message. Errors are reported to the
// originating session only, never broadcast.
func (s *Server) dispatchWS(sess *session, msg inboundMessage) {
	switch msg.Type {
	case msgJoinGame:
		var req roomRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.GameID == 0 {
			sess.sendError(apperr.New(apperr.KindValidation, "gameId is required"))
			return
		}
		// Any authenticated session may watch any existing game; live
		// presence is independent of the durable participant list.
		if _, err := s.findGame(req.GameID); err != nil {
			sess.sendError(err)
			return
		}
		s.rooms.Join(req.GameID, sess)
	case msgLeaveGame:
		var req roomRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.GameID == 0 {
			sess.sendError(apperr.New(apperr.KindValidation, "gameId is required"))
			return
		}
		s.rooms.Leave(req.GameID, sess)
	case msgScoreUpdate:
		var req scoreUpdateRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.GameID == 0 {
			sess.sendError(apperr.New(apperr.KindValidation, "gameId is required"))
			return
		}
		_, err := s.updateScore(req.GameID, sess.userID, scoreChange{
			CurrentScore: req.CurrentScore,
			EventType:    req.EventType,
			EventData:    req.EventData,
		}, sess)
		if err != nil {
			sess.sendError(err)
		}
	default:
		sess.sendError(apperr.New(apperr.KindValidation, "unknown message type"))
	}
}
