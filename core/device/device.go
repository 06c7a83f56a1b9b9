// Package device maps songs to and from the track records of portable
// player databases. Each supported device family is a TrackMapper
// registered under its kind; callers never branch on device type
// themselves.
package device

import (
	"fmt"
	"sync"

	"Melodex/model"
)

// TrackMapper converts between songs and one device family's native
// track record. FromTrack and ToTrack take and return the family's own
// track type behind any.
type TrackMapper interface {
	Kind() string
	FromTrack(track any) (model.Song, error)
	ToTrack(song model.Song) (any, error)
}

var (
	mappersMu sync.RWMutex
	mappers   = make(map[string]TrackMapper)
)

// Register installs a mapper. Later registrations replace earlier ones
// of the same kind.
func Register(m TrackMapper) {
	mappersMu.Lock()
	defer mappersMu.Unlock()
	mappers[m.Kind()] = m
}

// MapperFor looks up the mapper for a device kind.
func MapperFor(kind string) (TrackMapper, error) {
	mappersMu.RLock()
	defer mappersMu.RUnlock()
	m, ok := mappers[kind]
	if !ok {
		return nil, fmt.Errorf("no track mapper registered for device kind %q", kind)
	}
	return m, nil
}

// Kinds lists the registered device kinds.
func Kinds() []string {
	mappersMu.RLock()
	defer mappersMu.RUnlock()
	kinds := make([]string, 0, len(mappers))
	for k := range mappers {
		kinds = append(kinds, k)
	}
	return kinds
}
