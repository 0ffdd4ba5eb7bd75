package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cafe-api/kds"
	"github.com/yeremiapane/cafe-api/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are already filtered by the CORS middleware
	},
}

// FeedHandler -> GET /ws, streams cafe change events until the client disconnects
func FeedHandler(hub *kds.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.InfoLogger.Debugf("websocket upgrade failed: %v", err)
			return
		}

		hub.Register(ws)

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(ws)
	}
}
