package handlers

import (
	"net/http"

	"seller-backend/internal/realtime"
)

// EventsHandler upgrades to a websocket carrying the seller's order and payment changes
type EventsHandler struct {
	Hub *realtime.Hub
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	h.Hub.Serve(w, r, seller)
}
