package websocket

import (
	"encoding/json"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Hub maintains the set of connected clients and broadcasts activity
// events to them. The stream is one-way; clients send nothing.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Notify broadcasts an activity event to every connected client. A client
// that cannot keep up is dropped by the hub loop rather than blocking the
// mutation that produced the event.
func (h *Hub) Notify(event models.Event) {
	raw, err := json.Marshal(Message{Action: "activity", Payload: event})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode activity message")
		return
	}
	h.Broadcast <- raw
}
