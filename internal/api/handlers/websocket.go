package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/ws"
)

const defaultRoom = "lobby"

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin already checked by middleware.WebSocketCORSCheck
	},
}

// HandleRaceWebSocket attaches a viewer to a race room.
func HandleRaceWebSocket(hub *ws.Hub) gin.HandlerFunc {
	logger := logging.For("ws")

	return func(c *gin.Context) {
		room := c.DefaultQuery("room", defaultRoom)
		if room == "" {
			room = defaultRoom
		}
		codec, err := ws.ParseCodec(c.Query("codec"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := hub.Serve(c.Writer, c.Request, upgrader, room, codec); err != nil {
			logger.Warn().Err(err).Str("room", room).Msg("upgrade error")
		}
	}
}
