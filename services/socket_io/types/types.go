package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer holds the socket.io server plus the per-connection state the
// gateway tracks: which socket belongs to a session and which party each
// session has joined.
type SocketServer struct {
	Sio_server *socket.Server

	mutex sync.RWMutex
	// session id -> socket connection
	SessionConnections map[string]*socket.Socket
	// session id -> party code the session joined
	SessionParties map[string]string
	// party code -> subscriber handle registered on the Game
	PartySubscriptions map[string]string
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		SessionConnections: make(map[string]*socket.Socket),
		SessionParties:     make(map[string]string),
		PartySubscriptions: make(map[string]string),
	}
}

func (s *SocketServer) AddConnection(sessionId string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.SessionConnections[sessionId] = client
}

func (s *SocketServer) RemoveConnection(sessionId string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.SessionConnections, sessionId)
}

func (s *SocketServer) SetSessionParty(sessionId, partyCode string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.SessionParties[sessionId] = partyCode
}

func (s *SocketServer) GetSessionParty(sessionId string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	partyCode, ok := s.SessionParties[sessionId]
	return partyCode, ok
}

// MarkPartySubscribed records the Game subscriber handle for a party room the
// first time a client joins it. Returns false if the party was already
// subscribed.
func (s *SocketServer) MarkPartySubscribed(partyCode, handle string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.PartySubscriptions[partyCode]; ok {
		return false
	}
	s.PartySubscriptions[partyCode] = handle
	return true
}

func (s *SocketServer) PartySubscribed(partyCode string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.PartySubscriptions[partyCode]
	return ok
}
