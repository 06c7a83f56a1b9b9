package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"Melodex/core/events"
	"Melodex/core/scanner"
	"Melodex/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ScanHandler runs library scans and streams their progress.
type ScanHandler struct {
	scanner   *scanner.Scanner
	hub       *events.Hub
	musicDirs []string

	mu       sync.Mutex
	scanning bool
}

func NewScanHandler(sc *scanner.Scanner, hub *events.Hub, musicDirs []string) *ScanHandler {
	h := &ScanHandler{scanner: sc, hub: hub, musicDirs: musicDirs}
	go h.pumpEvents()
	return h
}

// pumpEvents forwards scanner progress into the websocket hub.
func (h *ScanHandler) pumpEvents() {
	for event := range h.scanner.Events() {
		h.hub.Broadcast(event)
	}
}

// StartScanHandler kicks off a background scan of the configured music
// directories. Only one scan runs at a time.
func (h *ScanHandler) StartScanHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.scanning {
		h.mu.Unlock()
		http.Error(w, "Scan already in progress", http.StatusConflict)
		return
	}
	h.scanning = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			h.scanning = false
			h.mu.Unlock()
		}()
		if err := h.scanner.ScanAll(context.Background(), h.musicDirs); err != nil {
			logger.Error("Library scan failed", logger.ErrorField(err))
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"message": "Scan started"})
}

// EventsHandler subscribes a websocket client to scan progress.
func (h *ScanHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Websocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := h.hub.Register(conn)

	// Drain reads so pongs and close frames are processed; the write
	// pump owns the other direction.
	go func() {
		defer h.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
