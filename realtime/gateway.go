// File: realtime/gateway.go
package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tutorhive/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the HTTP layer.
		return true
	},
}

// Gateway upgrades authenticated HTTP requests to websocket connections and
// keeps the registry in sync with connection lifetime.
type Gateway struct {
	Registry *ConnectionRegistry
}

// NewGateway constructs a Gateway over the given registry.
func NewGateway(registry *ConnectionRegistry) *Gateway {
	return &Gateway{Registry: registry}
}

// AttachHandler handles GET /ws. The user id comes from the auth middleware;
// the room defaults to the notification room.
func (g *Gateway) AttachHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	userID, _ := userIDValue.(string)

	room := c.DefaultQuery("room", utils.NotificationRoom)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.String("userId", userID), zap.Error(err))
		return
	}

	g.Registry.Add(room, userID, conn)
	logger.Debug("websocket attached", zap.String("room", room), zap.String("userId", userID))

	// Read pump. The server never expects inbound messages; reading drives
	// close detection so the registry entry is removed on disconnect.
	go func() {
		defer func() {
			g.Registry.Remove(room, userID)
			conn.Close()
			logger.Debug("websocket detached", zap.String("room", room), zap.String("userId", userID))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
