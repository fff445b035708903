package socket_io

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardparty/services/game"
	"cardparty/services/socket_io/handlers"
	socketio_types "cardparty/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io server on the gin router and registers the
// per-connection event handlers. Each connection is identified by an opaque
// session id taken from the handshake auth, or minted if absent, so a client
// that reconnects with the same id resumes its player.
func (sio *MySocketServer) Start(router *gin.Engine, registry *game.Registry) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.SessionConnections = make(map[string]*socket.Socket)
	sio.SessionParties = make(map[string]string)
	sio.PartySubscriptions = make(map[string]string)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		sessionId := sessionIdFromHandshake(client)
		(*socketio_types.SocketServer)(sio).AddConnection(sessionId, client)
		client.Emit("session", gin.H{"session_id": sessionId})

		// Join a party room
		client.On("join_party", handlers.HandleJoinParty(registry, client, sessionId, (*socketio_types.SocketServer)(sio)))

		// Lobby and round projections (pure reads)
		client.On("get_lobby_state", handlers.HandleGetLobbyState(registry, client, sessionId))
		client.On("get_round_state", handlers.HandleGetRoundState(registry, client, sessionId))

		// Round commands
		client.On("play_card", handlers.HandlePlayCard(registry, client, sessionId))
		client.On("judge_select_card", handlers.HandleJudgeSelectCard(registry, client, sessionId))
		client.On("shuffle_cards", handlers.HandleShuffleCards(registry, client, sessionId))
		client.On("end_round", handlers.HandleEndRound(registry, client, sessionId))

		// NOTE: marks the player inactive and drops the connection from the map
		client.On("disconnecting", handlers.HandleDisconnecting(registry, sessionId, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}

func sessionIdFromHandshake(client *socket.Socket) string {
	if authData, ok := client.Handshake().Auth.(map[string]interface{}); ok {
		if id, ok := authData["session_id"].(string); ok && id != "" {
			return id
		}
	}
	return uuid.NewString()
}
