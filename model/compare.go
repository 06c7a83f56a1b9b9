package model

import (
	"hash/fnv"
	"sort"
	"strings"
)

// The comparison predicates below deliberately look at different field
// sets. Equal identifies the same playable unit, MetadataEqual detects
// whether a re-scan changed anything, IsSimilar is a fuzzy match for
// correlating songs across sources. None is defined in terms of
// another.

// Equal reports whether both handles describe the same playable unit:
// the same locator starting at the same offset.
func (s Song) Equal(other Song) bool {
	return s.URLString() == other.URLString() && s.BeginningNanosec() == other.BeginningNanosec()
}

// Hash is the companion of Equal, for map keys and dedup sets.
func (s Song) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.URLString()))
	h.Write([]byte{0})
	writeInt64(h, s.BeginningNanosec())
	return h.Sum64()
}

// MetadataEqual compares every tag and audio property field, so a
// re-scan that produced an identical record can be skipped.
func (s Song) MetadataEqual(other Song) bool {
	a, b := s.data(), other.data()
	return a.title == b.title &&
		a.album == b.album &&
		a.artist == b.artist &&
		a.albumArtist == b.albumArtist &&
		a.composer == b.composer &&
		a.performer == b.performer &&
		a.grouping == b.grouping &&
		a.track == b.track &&
		a.disc == b.disc &&
		a.year == b.year &&
		a.origYear == b.origYear &&
		a.genre == b.genre &&
		a.comment == b.comment &&
		a.compilation == b.compilation &&
		a.beginning == b.beginning &&
		s.LengthNanosec() == other.LengthNanosec() &&
		a.bitrate == b.bitrate &&
		a.samplerate == b.samplerate &&
		a.bitdepth == b.bitdepth &&
		a.artAutomatic == b.artAutomatic &&
		a.artManual == b.artManual &&
		a.cuePath == b.cuePath
}

// IsSimilar is a case-insensitive title+artist match, loose enough to
// pair a scrobble or a stream announcement with a library entry.
func (s Song) IsSimilar(other Song) bool {
	return strings.EqualFold(s.Title(), other.Title()) &&
		strings.EqualFold(s.Artist(), other.Artist())
}

// SimilarHash buckets songs by the same fields IsSimilar compares.
func (s Song) SimilarHash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(s.Title())))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(s.Artist())))
	return h.Sum64()
}

// IsOnSameAlbum groups songs for album-level displays. Compilation
// status must agree before anything else is considered.
func (s Song) IsOnSameAlbum(other Song) bool {
	if s.IsCompilation() != other.IsCompilation() {
		return false
	}

	if s.HasCue() && other.HasCue() && s.CuePath() == other.CuePath() {
		return true
	}

	if s.IsCompilation() && s.Album() == other.Album() {
		return true
	}

	return s.EffectiveAlbum() == other.EffectiveAlbum() &&
		s.EffectiveAlbumArtist() == other.EffectiveAlbumArtist()
}

// AlbumKey is a grouping key consistent with IsOnSameAlbum: two songs
// on the same album produce the same key.
func (s Song) AlbumKey() string {
	artist := s.EffectiveAlbumArtist()
	if s.IsCompilation() {
		artist = "_compilation"
	}
	cue := ""
	if s.HasCue() {
		cue = s.CuePath()
	}
	return artist + "|" + cue + "|" + s.EffectiveAlbum()
}

// SortSongsAlphabetically orders songs by their displayed title.
func SortSongsAlphabetically(songs []Song) {
	sort.SliceStable(songs, func(i, j int) bool {
		return strings.ToLower(songs[i].PrettyTitleWithArtist()) < strings.ToLower(songs[j].PrettyTitleWithArtist())
	})
}

func writeInt64(h interface{ Write([]byte) (int, error) }, v int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
