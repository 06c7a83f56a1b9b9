package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"Melodex/core/cover"
	"Melodex/core/tagreader"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"
	"Melodex/storage"
)

// Event reports scan progress to subscribers (the websocket feed).
type Event struct {
	Kind   string `json:"kind"` // "scanning", "added", "updated", "removed", "done"
	Path   string `json:"path,omitempty"`
	SongID int    `json:"songId,omitempty"`
}

// Scanner walks music directories into the song database.
type Scanner struct {
	songs  repository.SongRepository
	dirs   repository.DirectoryRepository
	covers *cover.Cache

	events chan Event
}

// New creates a scanner. covers may be nil to skip art extraction.
func New(songs repository.SongRepository, dirs repository.DirectoryRepository, covers *cover.Cache) *Scanner {
	return &Scanner{
		songs:  songs,
		dirs:   dirs,
		covers: covers,
		events: make(chan Event, 64),
	}
}

// Events exposes the progress feed. Events are dropped when no one is
// draining the channel.
func (sc *Scanner) Events() <-chan Event { return sc.events }

func (sc *Scanner) emit(e Event) {
	select {
	case sc.events <- e:
	default:
	}
}

// ScanAll scans every given root directory.
func (sc *Scanner) ScanAll(ctx context.Context, roots []string) error {
	for _, root := range roots {
		if err := sc.ScanDirectory(ctx, root); err != nil {
			return err
		}
	}
	sc.emit(Event{Kind: "done"})
	return nil
}

// ScanDirectory walks one root, upserting every music file found, then
// runs compilation detection over the result.
func (sc *Scanner) ScanDirectory(ctx context.Context, root string) error {
	dir, err := sc.dirs.EnsureDirectory(root)
	if err != nil {
		return err
	}

	logger.Info("Scanning directory", logger.String("path", root), logger.Int("directoryId", dir.ID))

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable entry", logger.String("path", path), logger.ErrorField(err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if model.FileTypeFromSuffix(filepath.Ext(path)) == model.FileTypeUnknown {
			return nil
		}
		sc.emit(Event{Kind: "scanning", Path: path})
		if err := sc.scanFile(ctx, path, dir.ID); err != nil {
			logger.Warn("Failed to scan file", logger.String("path", path), logger.ErrorField(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return sc.detectCompilations(dir.ID)
}

// scanFile reads one file and inserts or updates its song row.
func (sc *Scanner) scanFile(ctx context.Context, path string, directoryID int) error {
	song := model.NewSong()

	m, picture, err := tagreader.ReadFile(path)
	if err != nil {
		// The tags were unreadable; keep what the filename tells us.
		song.InitFromFilePartial(path)
		if info, statErr := os.Stat(path); statErr == nil {
			song.SetFilesize(int(info.Size()))
			song.SetMtime(int(info.ModTime().Unix()))
			song.SetCtime(int(info.ModTime().Unix()))
		}
	} else {
		song.InitFromMetadata(*m)
	}
	song.SetDirectoryID(directoryID)

	if len(picture) > 0 && sc.covers != nil {
		if _, err := sc.covers.Store(song.Artist(), song.Album(), picture); err != nil {
			logger.Warn("Failed to cache embedded cover", logger.String("path", path), logger.ErrorField(err))
		} else if storage.Enabled() {
			name := filepath.Base(sc.covers.Path(song.Artist(), song.Album()))
			if err := storage.UploadCover(ctx, name, picture); err != nil {
				logger.Warn("Failed to mirror cover", logger.String("path", path), logger.ErrorField(err))
			}
		}
	}

	existing, err := sc.songs.SongByFilename(song.FilenameValue())
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.MetadataEqual(song) {
			return nil // Re-scan changed nothing.
		}
		song.SetID(existing.ID())
		song.MergeUserSetData(*existing)
		song.SetCompilationDetected(existing.CompilationDetected())
		if err := sc.songs.UpdateSong(song); err != nil {
			return err
		}
		sc.emit(Event{Kind: "updated", Path: path, SongID: song.ID()})
		return nil
	}

	if _, err := sc.songs.InsertSong(&song); err != nil {
		return err
	}
	sc.emit(Event{Kind: "added", Path: path, SongID: song.ID()})
	return nil
}

// detectCompilations marks albums whose tracks disagree on the artist.
// Grouped per filesystem directory so two albums with the same name in
// different places stay independent.
func (sc *Scanner) detectCompilations(directoryID int) error {
	songs, err := sc.songs.SongsByDirectory(directoryID)
	if err != nil {
		return err
	}

	type group struct {
		artists map[string]struct{}
		songs   []model.Song
	}
	groups := make(map[string]*group)

	for _, s := range songs {
		u := s.URL()
		if u == nil || s.Album() == "" {
			continue
		}
		key := filepath.Dir(u.Path) + "|" + s.Album()
		g, ok := groups[key]
		if !ok {
			g = &group{artists: make(map[string]struct{})}
			groups[key] = g
		}
		g.artists[s.Artist()] = struct{}{}
		g.songs = append(g.songs, s)
	}

	for _, g := range groups {
		detected := len(g.artists) > 1
		for _, s := range g.songs {
			if s.CompilationDetected() == detected {
				continue
			}
			updated := s.Copy()
			updated.SetCompilationDetected(detected)
			if err := sc.songs.UpdateSong(updated); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveFile marks the song for a deleted file unavailable rather than
// forgetting its play history.
func (sc *Scanner) RemoveFile(path string) error {
	probe := model.NewSong()
	probe.SetURL(&url.URL{Scheme: "file", Path: path})
	existing, err := sc.songs.SongByFilename(probe.FilenameValue())
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := sc.songs.MarkUnavailable(existing.ID(), true); err != nil {
		return err
	}
	sc.emit(Event{Kind: "removed", Path: path, SongID: existing.ID()})
	return nil
}
