package server

import (
	"encoding/json"
	"net/http"

	"Melodex/core/device"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"

	"github.com/gorilla/mux"
)

// DeviceHandler serves the device sync API.
type DeviceHandler struct {
	syncer   *device.Syncer
	songRepo repository.SongRepository
}

func NewDeviceHandler(syncer *device.Syncer, songRepo repository.SongRepository) *DeviceHandler {
	return &DeviceHandler{syncer: syncer, songRepo: songRepo}
}

// KindsHandler lists the device kinds with a registered mapper.
func (h *DeviceHandler) KindsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"kinds": device.Kinds()})
}

// ExportHandler converts the named songs into the device's track
// records and returns them.
func (h *DeviceHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]

	var req struct {
		Name    string `json:"name"`
		SongIDs []int  `json:"songIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Device name is required", http.StatusBadRequest)
		return
	}

	songs := make([]model.Song, 0, len(req.SongIDs))
	for _, id := range req.SongIDs {
		song, err := h.songRepo.SongByID(id)
		if err != nil {
			logger.Error("Failed to load song for export", logger.Int("songId", id), logger.ErrorField(err))
			http.Error(w, "Failed to load songs", http.StatusInternalServerError)
			return
		}
		if song == nil {
			continue
		}
		songs = append(songs, *song)
	}

	tracks, err := h.syncer.Export(r.Context(), kind, req.Name, songs)
	if err != nil {
		logger.Error("Device export failed",
			logger.String("kind", kind),
			logger.String("device", req.Name),
			logger.ErrorField(err))
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"device": req.Name,
		"kind":   kind,
		"tracks": tracks,
	})
}
