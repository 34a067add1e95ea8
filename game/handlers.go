package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type GameHandler struct {
	gateway *Gateway
}

func NewGameHandler(gateway *Gateway) *GameHandler {
	return &GameHandler{gateway: gateway}
}

// ConnectHandler upgrades the request and starts the connection's pumps.
// Everything after the upgrade is message-driven through the gateway.
func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}

	session := NewWebsocketSession(conn)
	client := NewClient(NewPlayerID(), session, h.gateway)

	go client.WritePump()
	go client.ReadPump()

	client.SendMessage(ServerMessageConnectSuccess, ServerConnectSuccessPayload{PlayerID: client.ID})
}
