package device

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"
)

// Syncer moves songs between the library and a registered device.
type Syncer struct {
	songs   repository.SongRepository
	devices repository.DeviceRepository
}

func NewSyncer(songs repository.SongRepository, devices repository.DeviceRepository) *Syncer {
	return &Syncer{songs: songs, devices: devices}
}

// Export converts library songs into the device's native track records.
// The returned slice is ordered like the input; songs the mapper
// rejects are skipped with a warning.
func (s *Syncer) Export(ctx context.Context, kind, name string, songs []model.Song) ([]any, error) {
	mapper, err := MapperFor(kind)
	if err != nil {
		return nil, err
	}
	dev, err := s.devices.EnsureDevice(kind, name)
	if err != nil {
		return nil, err
	}

	session := uuid.New().String()
	logger.Info("Starting device export",
		logger.String("session", session),
		logger.String("kind", kind),
		logger.String("device", name),
		logger.Int("songs", len(songs)))

	tracks := make([]any, 0, len(songs))
	for _, song := range songs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		track, err := mapper.ToTrack(song)
		if err != nil {
			logger.Warn("Skipping song during export",
				logger.String("session", session),
				logger.Int("songId", song.ID()),
				logger.ErrorField(err))
			continue
		}
		tracks = append(tracks, track)
	}

	if err := s.devices.TouchSync(dev.ID); err != nil {
		return nil, err
	}
	logger.Info("Device export finished",
		logger.String("session", session),
		logger.Int("tracks", len(tracks)))
	return tracks, nil
}

// Import reads device track records into the library. Tracks already
// present (same URL) are merged so play history survives.
func (s *Syncer) Import(ctx context.Context, kind, name string, tracks []any) ([]model.Song, error) {
	mapper, err := MapperFor(kind)
	if err != nil {
		return nil, err
	}
	dev, err := s.devices.EnsureDevice(kind, name)
	if err != nil {
		return nil, err
	}

	session := uuid.New().String()
	logger.Info("Starting device import",
		logger.String("session", session),
		logger.String("kind", kind),
		logger.String("device", name),
		logger.Int("tracks", len(tracks)))

	imported := make([]model.Song, 0, len(tracks))
	for _, track := range tracks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		song, err := mapper.FromTrack(track)
		if err != nil {
			return nil, fmt.Errorf("failed to import track from %s device: %w", kind, err)
		}

		existing, err := s.songs.SongByFilename(song.FilenameValue())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			song.SetID(existing.ID())
			song.MergeUserSetData(*existing)
			if err := s.songs.UpdateSong(song); err != nil {
				return nil, err
			}
		} else if _, err := s.songs.InsertSong(&song); err != nil {
			return nil, err
		}
		imported = append(imported, song)
	}

	if err := s.devices.TouchSync(dev.ID); err != nil {
		return nil, err
	}
	logger.Info("Device import finished",
		logger.String("session", session),
		logger.Int("songs", len(imported)))
	return imported, nil
}
