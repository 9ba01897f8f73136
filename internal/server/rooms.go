package server

import (
	"encoding/json"
	"log"
	"sync"
)

// roomHub is the room membership table: game id -> set of live sessions.
// It tracks live presence only; durable participation lives in the games
// tables and the two are intentionally independent.
type roomHub struct {
	mu    sync.Mutex
	rooms map[uint]map[*session]struct{}
}

func newRoomHub() *roomHub {
	return &roomHub{
		rooms: make(map[uint]map[*session]struct{}),
	}
}

// Join subscribes the session to a game room. Joining twice is a no-op.
// Other current members are notified with a peerJoined event.
func (h *roomHub) Join(gameID uint, sess *session) {
	h.mu.Lock()
	room := h.rooms[gameID]
	if room == nil {
		room = make(map[*session]struct{})
		h.rooms[gameID] = room
	}
	if _, ok := room[sess]; ok {
		h.mu.Unlock()
		return
	}
	room[sess] = struct{}{}
	sess.joined[gameID] = struct{}{}
	others := make([]*session, 0, len(room)-1)
	for member := range room {
		if member != sess {
			others = append(others, member)
		}
	}
	h.mu.Unlock()

	h.deliver(others, envelope(eventPeerJoined, peerPayload{ActorID: sess.userID}))
	log.Printf("room joined game_id=%d session=%s user_id=%d", gameID, sess.id, sess.userID)
}

// Leave unsubscribes the session from a game room; no-op if absent.
// Remaining members are notified with a peerLeft event.
func (h *roomHub) Leave(gameID uint, sess *session) {
	h.mu.Lock()
	room := h.rooms[gameID]
	if room == nil {
		h.mu.Unlock()
		return
	}
	if _, ok := room[sess]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, sess)
	delete(sess.joined, gameID)
	if len(room) == 0 {
		delete(h.rooms, gameID)
	}
	remaining := make([]*session, 0, len(room))
	for member := range room {
		remaining = append(remaining, member)
	}
	h.mu.Unlock()

	h.deliver(remaining, envelope(eventPeerLeft, peerPayload{ActorID: sess.userID}))
	log.Printf("room left game_id=%d session=%s user_id=%d", gameID, sess.id, sess.userID)
}

// Broadcast delivers payload to every member of the room, optionally
// skipping the originating session. A slow or dead member never blocks
// delivery to the others.
func (h *roomHub) Broadcast(gameID uint, payload any, exclude *session) {
	h.mu.Lock()
	room := h.rooms[gameID]
	members := make([]*session, 0, len(room))
	for member := range room {
		if member != exclude {
			members = append(members, member)
		}
	}
	h.mu.Unlock()

	h.deliver(members, payload)
}

// RemoveEverywhere leaves all rooms the session had joined. Called
// unconditionally on disconnect.
func (h *roomHub) RemoveEverywhere(sess *session) {
	h.mu.Lock()
	gameIDs := make([]uint, 0, len(sess.joined))
	for gameID := range sess.joined {
		gameIDs = append(gameIDs, gameID)
	}
	h.mu.Unlock()

	for _, gameID := range gameIDs {
		h.Leave(gameID, sess)
	}
}

// MemberCount reports the current room size for a game.
func (h *roomHub) MemberCount(gameID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[gameID])
}

func (h *roomHub) deliver(members []*session, payload any) {
	if len(members) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("broadcast marshal failed error=%v", err)
		return
	}
	for _, member := range members {
		member.enqueue(data)
	}
}
