package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection with the hub and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, orgID, userID uuid.UUID) {
	client := &Client{
		Hub:            hub,
		Conn:           conn,
		OrganizationID: orgID,
		UserID:         userID,
		Send:           make(chan []byte, sendBuffer),
	}
	if !hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
