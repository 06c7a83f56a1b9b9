package cache

import (
	"context"
	"fmt"
	"time"

	"Melodex/model"

	"github.com/go-redis/redis/v8"
)

// songCacheTTL bounds staleness for song lookups served from Redis.
const songCacheTTL = 6 * time.Hour

// SongKey builds the Redis key for a cached song.
func SongKey(id int) string {
	return fmt.Sprintf("song:%d", id)
}

// CacheSong stores the wire form of a song.
func CacheSong(ctx context.Context, song model.Song) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	if song.ID() == -1 {
		return fmt.Errorf("cannot cache a song without an id")
	}

	payload, err := song.ToMetadata().Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal song %d for cache: %w", song.ID(), err)
	}

	if err := RedisClient.Set(ctx, SongKey(song.ID()), payload, songCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache song %d: %w", song.ID(), err)
	}
	return nil
}

// CachedSong fetches a song from the cache. Returns (nil, nil) on a
// miss.
func CachedSong(ctx context.Context, id int) (*model.Song, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	payload, err := RedisClient.Get(ctx, SongKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached song %d: %w", id, err)
	}

	m, err := model.UnmarshalSongMetadata(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached song %d: %w", id, err)
	}

	song := model.NewSong()
	song.InitFromMetadata(m)
	song.SetID(id)
	return &song, nil
}

// InvalidateSong drops a cached song after an update.
func InvalidateSong(ctx context.Context, id int) error {
	if RedisClient == nil {
		return nil
	}
	if err := RedisClient.Del(ctx, SongKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached song %d: %w", id, err)
	}
	return nil
}
