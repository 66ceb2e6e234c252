package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/middleware"
	ws "github.com/ikkim/giftbox-backend/internal/websocket"
)

type EventController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewEventController accepts upgrades from the listed origins, or from any
// origin when the list contains "*". Requests without an Origin header are
// always accepted.
func NewEventController(hub *ws.Hub, allowedOrigins []string) *EventController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &EventController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin] || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// Subscribe streams gift box events to an admin console
// GET /api/v1/admin/events
func (ctrl *EventController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
