package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dom/web-ads-backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedHandler serves the live ad feed websocket.
type FeedHandler struct {
	hub *ws.Hub
}

func NewFeedHandler(hub *ws.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade feed connection: %v", err)
		return
	}

	ws.NewClient(h.hub, conn).Register()
}
