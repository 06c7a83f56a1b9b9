package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func librarySong(title, artist, album string) Song {
	s := NewSong()
	s.SetTitle(title)
	s.SetArtist(artist)
	s.SetAlbum(album)
	return s
}

func TestEqualComparesLocatorAndOffsetOnly(t *testing.T) {
	a := NewSong()
	a.SetURL(&url.URL{Scheme: "file", Path: "/music/a.mp3"})
	a.SetTitle("One Title")

	b := NewSong()
	b.SetURL(&url.URL{Scheme: "file", Path: "/music/a.mp3"})
	b.SetTitle("A Completely Different Title")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	// Same file, different sub-track offset: different playable unit.
	b.SetBeginningNanosec(30 * NsecPerSec)
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestMetadataEqualIgnoresLocator(t *testing.T) {
	a := librarySong("Song", "Artist", "Album")
	a.SetURL(&url.URL{Scheme: "file", Path: "/old/a.mp3"})

	b := librarySong("Song", "Artist", "Album")
	b.SetURL(&url.URL{Scheme: "file", Path: "/new/a.mp3"})

	assert.True(t, a.MetadataEqual(b))

	b.SetGenre("Jazz")
	assert.False(t, a.MetadataEqual(b))
}

func TestMetadataEqualSeesLengthNotMarkers(t *testing.T) {
	a := NewSong()
	a.SetLengthNanosec(100 * NsecPerSec)

	b := NewSong()
	b.SetLengthNanosec(100 * NsecPerSec)
	assert.True(t, a.MetadataEqual(b))

	b.SetLengthNanosec(99 * NsecPerSec)
	assert.False(t, a.MetadataEqual(b))
}

func TestIsSimilarIsCaseInsensitive(t *testing.T) {
	a := librarySong("Paranoid Android", "Radiohead", "OK Computer")
	b := librarySong("PARANOID ANDROID", "radiohead", "a live bootleg")

	assert.True(t, a.IsSimilar(b))
	assert.Equal(t, a.SimilarHash(), b.SimilarHash())

	c := librarySong("Paranoid Android", "Someone Else", "OK Computer")
	assert.False(t, a.IsSimilar(c))
}

func TestEqualAndIsSimilarDiverge(t *testing.T) {
	// Same recording in two locations: similar but not equal.
	a := librarySong("Track", "Artist", "Album")
	a.SetURL(&url.URL{Scheme: "file", Path: "/disk1/t.mp3"})

	b := librarySong("Track", "Artist", "Album")
	b.SetURL(&url.URL{Scheme: "file", Path: "/disk2/t.mp3"})

	assert.True(t, a.IsSimilar(b))
	assert.False(t, a.Equal(b))

	// Retagged file: equal but no longer similar.
	c := librarySong("Renamed", "Artist", "Album")
	c.SetURL(&url.URL{Scheme: "file", Path: "/disk1/t.mp3"})
	assert.True(t, a.Equal(c))
	assert.False(t, a.IsSimilar(c))
}

func TestIsOnSameAlbumCompilationGate(t *testing.T) {
	a := librarySong("One", "Artist A", "Mix 2004")
	b := librarySong("Two", "Artist B", "Mix 2004")

	// Only one marked as compilation: never the same album.
	a.SetCompilation(true)
	assert.False(t, a.IsOnSameAlbum(b))

	// Both compilations with the same album name match regardless of
	// artist.
	b.SetCompilation(true)
	assert.True(t, a.IsOnSameAlbum(b))
}

func TestIsOnSameAlbumEffectiveFields(t *testing.T) {
	a := librarySong("One", "Band", "Record")
	b := librarySong("Two", "Band", "Record")
	assert.True(t, a.IsOnSameAlbum(b))

	b.SetAlbumArtist("Someone Else")
	assert.False(t, a.IsOnSameAlbum(b))

	// Untitled singles group by title fallback.
	x := librarySong("Lonely Single", "Band", "")
	y := librarySong("Lonely Single", "Band", "")
	z := librarySong("Another Single", "Band", "")
	assert.True(t, x.IsOnSameAlbum(y))
	assert.False(t, x.IsOnSameAlbum(z))
}

func TestIsOnSameAlbumCueSheet(t *testing.T) {
	a := librarySong("Part 1", "Artist", "")
	a.SetCuePath("/music/album.cue")
	b := librarySong("Part 2", "Artist", "")
	b.SetCuePath("/music/album.cue")
	c := librarySong("Part 9", "Artist", "")
	c.SetCuePath("/music/other.cue")

	// A shared CUE sheet groups tracks even when their titles differ.
	assert.True(t, a.IsOnSameAlbum(b))

	// A differing CUE path is not a veto; the comparison falls through
	// to the effective fields, which diverge here via title fallback.
	assert.False(t, a.IsOnSameAlbum(c))

	// With matching effective fields the fall-through groups them
	// despite the different CUE sheets.
	d := librarySong("Part 1", "Artist", "")
	d.SetCuePath("/music/other.cue")
	assert.True(t, a.IsOnSameAlbum(d))
}

func TestAlbumKeyConsistentWithGrouping(t *testing.T) {
	a := librarySong("One", "Artist A", "Mix 2004")
	a.SetCompilation(true)
	b := librarySong("Two", "Artist B", "Mix 2004")
	b.SetCompilation(true)

	assert.Equal(t, a.AlbumKey(), b.AlbumKey())

	c := librarySong("Three", "Artist A", "Mix 2004")
	assert.NotEqual(t, a.AlbumKey(), c.AlbumKey())

	d := librarySong("Four", "Band", "Record")
	e := librarySong("Five", "Band", "Record")
	assert.Equal(t, d.AlbumKey(), e.AlbumKey())
}

func TestAlbumKeyStableAcrossCopies(t *testing.T) {
	s := librarySong("One", "Band", "Record")
	key := s.AlbumKey()

	c := s.Copy()
	c.SetTitle("Renamed")
	assert.Equal(t, key, s.AlbumKey())
	assert.Equal(t, key, c.AlbumKey())
}

func TestSortSongsAlphabetically(t *testing.T) {
	a := librarySong("Zebra", "Alpha", "")
	b := librarySong("Apple", "Beta", "")
	c := librarySong("Mango", "", "")

	songs := []Song{a, b, c}
	SortSongsAlphabetically(songs)

	assert.Equal(t, "Zebra", songs[0].Title()) // "Alpha - Zebra"
	assert.Equal(t, "Apple", songs[1].Title()) // "Beta - Apple"
	assert.Equal(t, "Mango", songs[2].Title()) // no artist prefix
}
