package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"Melodex/cache"
	"Melodex/core/cover"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"
	"Melodex/storage"

	"github.com/gorilla/mux"
)

// SongHandler serves the song library API.
type SongHandler struct {
	songRepo repository.SongRepository
	covers   *cover.Cache
}

func NewSongHandler(songRepo repository.SongRepository, covers *cover.Cache) *SongHandler {
	return &SongHandler{songRepo: songRepo, covers: covers}
}

// songResponse is the API shape of a song: the wire record plus the
// fields clients want precomputed.
type songResponse struct {
	ID int `json:"id"`
	model.SongMetadata
	PrettyTitle          string `json:"prettyTitle"`
	PrettyLength         string `json:"prettyLength"`
	EffectiveAlbum       string `json:"effectiveAlbum"`
	EffectiveAlbumArtist string `json:"effectiveAlbumartist"`
	IsCompilation        bool   `json:"isCompilation"`
}

func songToResponse(song model.Song) songResponse {
	return songResponse{
		ID:                   song.ID(),
		SongMetadata:         song.ToMetadata(),
		PrettyTitle:          song.PrettyTitle(),
		PrettyLength:         song.PrettyLength(),
		EffectiveAlbum:       song.EffectiveAlbum(),
		EffectiveAlbumArtist: song.EffectiveAlbumArtist(),
		IsCompilation:        song.IsCompilation(),
	}
}

// SearchHandler runs a full-text search over the library.
// URL: /api/songs/search?q=...&limit=...
func (h *SongHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing 'q' parameter", http.StatusBadRequest)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	songs, err := h.songRepo.SearchSongs(query, limit)
	if err != nil {
		logger.Error("Search failed", logger.String("query", query), logger.ErrorField(err))
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	responses := make([]songResponse, 0, len(songs))
	for _, song := range songs {
		responses = append(responses, songToResponse(song))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetSongHandler returns one song, consulting the Redis cache first.
func (h *SongHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	song, err := cache.CachedSong(ctx, id)
	if err != nil {
		logger.Warn("Song cache lookup failed", logger.Int("songId", id), logger.ErrorField(err))
	}
	if song == nil {
		song, err = h.songRepo.SongByID(id)
		if err != nil {
			logger.Error("Failed to load song", logger.Int("songId", id), logger.ErrorField(err))
			http.Error(w, "Failed to load song", http.StatusInternalServerError)
			return
		}
		if song == nil {
			http.Error(w, "Song not found", http.StatusNotFound)
			return
		}
		if err := cache.CacheSong(ctx, *song); err != nil {
			logger.Warn("Failed to cache song", logger.Int("songId", id), logger.ErrorField(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(songToResponse(*song))
}

// PlayedHandler bumps the play count and stamps the play time.
func (h *SongHandler) PlayedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	if err := h.songRepo.IncrementPlayCount(id, int(time.Now().Unix())); err != nil {
		logger.Error("Failed to record play", logger.Int("songId", id), logger.ErrorField(err))
		http.Error(w, "Failed to record play", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// SkippedHandler bumps the skip count.
func (h *SongHandler) SkippedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	if err := h.songRepo.IncrementSkipCount(id); err != nil {
		logger.Error("Failed to record skip", logger.Int("songId", id), logger.ErrorField(err))
		http.Error(w, "Failed to record skip", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// SetArtHandler stores a manual cover override. An empty path means the
// user explicitly cleared the cover.
func (h *SongHandler) SetArtHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	var req struct {
		Path  string `json:"path"`
		Unset bool   `json:"unset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var art model.CoverArt
	if req.Unset {
		art = model.UnsetCoverArt()
	} else {
		art = model.CoverArtFromPath(req.Path)
	}

	if err := h.songRepo.SetArtManual(id, art); err != nil {
		logger.Error("Failed to set cover override", logger.Int("songId", id), logger.ErrorField(err))
		http.Error(w, "Failed to set cover", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// SetCompilationHandler stores the user compilation override pair.
func (h *SongHandler) SetCompilationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	var req struct {
		On  bool `json:"on"`
		Off bool `json:"off"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.songRepo.SetCompilationOverride(id, req.On, req.Off); err != nil {
		logger.Error("Failed to set compilation override", logger.Int("songId", id), logger.ErrorField(err))
		http.Error(w, "Failed to set compilation override", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// CoverHandler serves the best cover for a song: manual override first,
// then the extracted-art cache, then the MinIO mirror.
func (h *SongHandler) CoverHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	song, err := h.songRepo.SongByID(id)
	if err != nil {
		http.Error(w, "Failed to load song", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.Error(w, "Song not found", http.StatusNotFound)
		return
	}

	manual := song.ArtManual()
	if manual.IsUnset() {
		// The user cleared the cover on purpose.
		http.Error(w, "No cover available", http.StatusNotFound)
		return
	}
	if manual.Path() != "" {
		http.ServeFile(w, r, manual.Path())
		return
	}

	if path, ok := h.covers.Probe(song.Artist(), song.Album()); ok {
		http.ServeFile(w, r, path)
		return
	}

	if storage.Enabled() {
		// The mirror stores objects under the cache file's basename.
		name := filepath.Base(h.covers.Path(song.Artist(), song.Album()))
		data, err := storage.FetchCover(r.Context(), name)
		if err == nil {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(data)
			return
		}
	}

	http.Error(w, "No cover available", http.StatusNotFound)
}

func (h *SongHandler) invalidate(ctx context.Context, id int) {
	if err := cache.InvalidateSong(ctx, id); err != nil {
		logger.Warn("Failed to invalidate song cache", logger.Int("songId", id), logger.ErrorField(err))
	}
}

// songID parses the {id} route variable, writing the error response
// itself on failure.
func songID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
