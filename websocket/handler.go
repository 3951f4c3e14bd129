package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and keeps it registered with
// the hub until the client goes away.
func HandleWebSocket(c echo.Context, hub *Hub, employeeCode string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		EmployeeCode: employeeCode,
		Conn:         conn,
	}

	hub.register <- client

	conn.WriteJSON(Event{
		Type:         EventTypeConnected,
		Message:      "WebSocket connection established",
		EmployeeCode: employeeCode,
	})

	// Drain reads so pings and close frames are processed; the client
	// never sends application messages.
	go func() {
		defer func() {
			hub.unregister <- client
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
