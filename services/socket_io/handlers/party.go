package handlers

import (
	"log"

	"cardparty/services/game"
	socketio_types "cardparty/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleJoinParty admits the session to a party and joins the client to the
// matching socket.io room. The first join of a party also registers the
// room-broadcast subscriber on the Game, so every connection in the room
// receives state-change signals, not just the most recent one.
func HandleJoinParty(registry *game.Registry, client *socket.Socket,
	sessionId string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 2 {
			client.Emit("error", gin.H{"error": "party code and player name are required"})
			return
		}
		partyCode, ok1 := args[0].(string)
		name, ok2 := args[1].(string)
		if !ok1 || !ok2 || partyCode == "" || name == "" {
			client.Emit("error", gin.H{"error": "party code and player name are required"})
			return
		}

		success, message := registry.JoinParty(partyCode, sessionId, name)
		if !success {
			client.Emit("error", gin.H{"error": message})
			return
		}

		client.Join(socket.Room(partyCode))
		sio.SetSessionParty(sessionId, partyCode)
		subscribeParty(registry, sio, partyCode)

		log.Printf("[GATEWAY] Session %s joined party %s as %q", sessionId, partyCode, name)
		client.Emit("joined_party", gin.H{"party_code": partyCode, "message": message})
		broadcastLobbyState(registry, sio, partyCode)
	}
}

// HandleGetLobbyState replies with the lobby projection for this session.
func HandleGetLobbyState(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}
		state := registry.GetLobbyState(partyCode, sessionId)
		if state == nil {
			client.Emit("error", gin.H{"error": "party not found"})
			return
		}
		client.Emit("lobby_state", state)
	}
}

// HandleGetRoundState replies with the caller's view of the current round.
// This is a pure read: it never starts a round or arms a timer.
func HandleGetRoundState(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}
		state := registry.GetPlayerRoundState(partyCode, sessionId)
		if state == nil {
			client.Emit("round_state", gin.H{"round": nil})
			return
		}
		client.Emit("round_state", gin.H{"round": state})
	}
}

// HandleDisconnecting marks the session's player inactive in their party and
// drops the connection from the gateway maps.
func HandleDisconnecting(registry *game.Registry, sessionId string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if partyCode, ok := sio.GetSessionParty(sessionId); ok {
			registry.LeaveParty(partyCode, sessionId)
			log.Printf("[GATEWAY] Session %s left party %s", sessionId, partyCode)
		}
		sio.RemoveConnection(sessionId)
	}
}

// subscribeParty wires the party's state-change signals to a room-wide emit,
// once per party room.
func subscribeParty(registry *game.Registry, sio *socketio_types.SocketServer, partyCode string) {
	if sio.PartySubscribed(partyCode) {
		return
	}
	g, ok := registry.Get(partyCode)
	if !ok {
		return
	}
	handle := g.Subscribe(func(success bool, message string) {
		sio.Sio_server.To(socket.Room(partyCode)).Emit("round_changed", gin.H{
			"success": success,
			"message": message,
		})
	})
	if !sio.MarkPartySubscribed(partyCode, handle) {
		// Another connection subscribed first
		g.Unsubscribe(handle)
	}
}

func broadcastLobbyState(registry *game.Registry, sio *socketio_types.SocketServer, partyCode string) {
	if state := registry.GetLobbyState(partyCode, ""); state != nil {
		sio.Sio_server.To(socket.Room(partyCode)).Emit("lobby_changed", gin.H{
			"players": state.Players,
		})
	}
}

func partyCodeArg(args []interface{}) (string, bool) {
	if len(args) < 1 {
		return "", false
	}
	partyCode, ok := args[0].(string)
	return partyCode, ok && partyCode != ""
}

// numberArg pulls an integer out of a socket.io argument, which arrives as a
// JSON number (float64) or occasionally a string.
func numberArg(args []interface{}, index int) (int, bool) {
	if len(args) <= index {
		return 0, false
	}
	switch v := args[index].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
