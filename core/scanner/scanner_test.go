package scanner

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Melodex/model"
)

// fakeSongRepo is an in-memory SongRepository keyed by URL.
type fakeSongRepo struct {
	nextID int
	songs  map[int]model.Song
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{nextID: 1, songs: make(map[int]model.Song)}
}

func (r *fakeSongRepo) InsertSong(song *model.Song) (int, error) {
	id := r.nextID
	r.nextID++
	song.SetID(id)
	r.songs[id] = *song
	return id, nil
}

func (r *fakeSongRepo) UpdateSong(song model.Song) error {
	r.songs[song.ID()] = song
	return nil
}

func (r *fakeSongRepo) SongByID(id int) (*model.Song, error) {
	s, ok := r.songs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSongRepo) SongByFilename(filename string) (*model.Song, error) {
	for _, s := range r.songs {
		if s.FilenameValue() == filename {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSongRepo) SongsByDirectory(directoryID int) ([]model.Song, error) {
	var out []model.Song
	for _, s := range r.songs {
		if s.DirectoryID() == directoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSongRepo) SearchSongs(string, int) ([]model.Song, error) { return nil, nil }

func (r *fakeSongRepo) IncrementPlayCount(id int, lastPlayed int) error {
	s := r.songs[id]
	s.SetPlayCount(s.PlayCount() + 1)
	s.SetLastPlayed(lastPlayed)
	r.songs[id] = s
	return nil
}

func (r *fakeSongRepo) IncrementSkipCount(id int) error { return nil }

func (r *fakeSongRepo) SetArtManual(id int, art model.CoverArt) error {
	s := r.songs[id]
	s.SetArtManual(art)
	r.songs[id] = s
	return nil
}

func (r *fakeSongRepo) SetCompilationOverride(id int, on, off bool) error { return nil }

func (r *fakeSongRepo) MarkUnavailable(id int, unavailable bool) error {
	s := r.songs[id]
	s.SetUnavailable(unavailable)
	r.songs[id] = s
	return nil
}

func (r *fakeSongRepo) DeleteSong(id int) error {
	delete(r.songs, id)
	return nil
}

// fakeDirRepo hands out one directory per distinct path.
type fakeDirRepo struct {
	nextID int
	byPath map[string]*model.Directory
}

func newFakeDirRepo() *fakeDirRepo {
	return &fakeDirRepo{nextID: 1, byPath: make(map[string]*model.Directory)}
}

func (r *fakeDirRepo) EnsureDirectory(path string) (*model.Directory, error) {
	if d, ok := r.byPath[path]; ok {
		return d, nil
	}
	d := &model.Directory{ID: r.nextID, Path: path}
	r.nextID++
	r.byPath[path] = d
	return d, nil
}

func (r *fakeDirRepo) AllDirectories() ([]model.Directory, error) {
	var out []model.Directory
	for _, d := range r.byPath {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDirRepo) RemoveDirectory(int) error { return nil }

// writeAudioFile drops a file whose tags are unreadable, forcing the
// filename fallback path.
func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
	return path
}

func drainEvents(sc *Scanner) []Event {
	var out []Event
	for {
		select {
		case e := <-sc.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}

func eventKinds(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestScanDirectoryInsertsSongs(t *testing.T) {
	root := t.TempDir()
	writeAudioFile(t, root, "Album/one.mp3")
	writeAudioFile(t, root, "Album/two.flac")
	writeAudioFile(t, root, "Album/notes.txt")

	songs := newFakeSongRepo()
	sc := New(songs, newFakeDirRepo(), nil)

	require.NoError(t, sc.ScanAll(context.Background(), []string{root}))

	assert.Len(t, songs.songs, 2)
	kinds := eventKinds(drainEvents(sc))
	assert.Contains(t, kinds, "added")
	assert.Contains(t, kinds, "done")

	one, err := songs.SongByFilename((&url.URL{Scheme: "file", Path: filepath.Join(root, "Album", "one.mp3")}).String())
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.True(t, one.IsValid())
	assert.Equal(t, "one.mp3", one.Basefilename())
	assert.Equal(t, model.FileTypeMPEG, one.FileType())
	assert.Equal(t, 1, one.DirectoryID())
	assert.Greater(t, one.Filesize(), 0)
}

func TestRescanSkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeAudioFile(t, root, "one.mp3")

	songs := newFakeSongRepo()
	sc := New(songs, newFakeDirRepo(), nil)

	require.NoError(t, sc.ScanDirectory(context.Background(), root))
	drainEvents(sc)

	require.NoError(t, sc.ScanDirectory(context.Background(), root))
	kinds := eventKinds(drainEvents(sc))
	assert.NotContains(t, kinds, "added")
	assert.NotContains(t, kinds, "updated")
	assert.Len(t, songs.songs, 1)
}

func TestPortableModeRescanMatchesStoredLocator(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, "one.mp3")

	model.SetPortableAppDir(root)
	defer model.SetPortableAppDir("")

	songs := newFakeSongRepo()
	sc := New(songs, newFakeDirRepo(), nil)

	require.NoError(t, sc.ScanDirectory(context.Background(), root))
	require.Len(t, songs.songs, 1)

	// Stored relative, so a rescan must still find the same row.
	stored, err := songs.SongByFilename("one.mp3")
	require.NoError(t, err)
	require.NotNil(t, stored)

	require.NoError(t, sc.ScanDirectory(context.Background(), root))
	assert.Len(t, songs.songs, 1)

	require.NoError(t, sc.RemoveFile(path))
	got, _ := songs.SongByID(stored.ID())
	assert.True(t, got.IsUnavailable())
}

func TestRescanPreservesUserData(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, "one.mp3")

	songs := newFakeSongRepo()
	existing := model.NewSong()
	existing.InitFromFilePartial(path)
	existing.SetTitle("Edited Title")
	existing.SetDirectoryID(1)
	existing.SetPlayCount(5)
	existing.SetArtManual(model.CoverArtFromPath("/covers/mine.jpg"))
	_, err := songs.InsertSong(&existing)
	require.NoError(t, err)

	sc := New(songs, newFakeDirRepo(), nil)
	require.NoError(t, sc.ScanDirectory(context.Background(), root))

	got, err := songs.SongByID(existing.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.PlayCount())
	assert.Equal(t, "/covers/mine.jpg", got.ArtManual().Path())
}

func TestDetectCompilations(t *testing.T) {
	songs := newFakeSongRepo()
	add := func(dir, album, artist string) int {
		s := model.NewSong()
		s.SetValid(true)
		s.SetAlbum(album)
		s.SetArtist(artist)
		s.SetDirectoryID(1)
		s.SetURL(&url.URL{Scheme: "file", Path: dir + "/" + artist + ".mp3"})
		id, err := songs.InsertSong(&s)
		require.NoError(t, err)
		return id
	}

	mixedA := add("/music/va", "Mix", "Alpha")
	mixedB := add("/music/va", "Mix", "Beta")
	solo := add("/music/solo", "Solo", "Gamma")

	// The same album name in another directory is a different album.
	other := add("/music/other", "Mix", "Delta")

	sc := New(songs, newFakeDirRepo(), nil)
	require.NoError(t, sc.detectCompilations(1))

	for _, id := range []int{mixedA, mixedB} {
		got, _ := songs.SongByID(id)
		assert.True(t, got.CompilationDetected(), "song %d", id)
	}
	for _, id := range []int{solo, other} {
		got, _ := songs.SongByID(id)
		assert.False(t, got.CompilationDetected(), "song %d", id)
	}
}

func TestDetectCompilationsClearsStaleFlag(t *testing.T) {
	songs := newFakeSongRepo()
	s := model.NewSong()
	s.SetValid(true)
	s.SetAlbum("Solo")
	s.SetArtist("Gamma")
	s.SetDirectoryID(1)
	s.SetCompilationDetected(true)
	s.SetURL(&url.URL{Scheme: "file", Path: "/music/solo/g.mp3"})
	id, err := songs.InsertSong(&s)
	require.NoError(t, err)

	sc := New(songs, newFakeDirRepo(), nil)
	require.NoError(t, sc.detectCompilations(1))

	got, _ := songs.SongByID(id)
	assert.False(t, got.CompilationDetected())
}

func TestRemoveFileMarksUnavailable(t *testing.T) {
	songs := newFakeSongRepo()
	s := model.NewSong()
	s.InitFromFilePartial("/music/gone.mp3")
	s.SetDirectoryID(1)
	id, err := songs.InsertSong(&s)
	require.NoError(t, err)

	sc := New(songs, newFakeDirRepo(), nil)
	require.NoError(t, sc.RemoveFile("/music/gone.mp3"))

	got, _ := songs.SongByID(id)
	assert.True(t, got.IsUnavailable())

	events := drainEvents(sc)
	require.Len(t, events, 1)
	assert.Equal(t, "removed", events[0].Kind)
	assert.Equal(t, id, events[0].SongID)

	// A path we never stored is a no-op.
	require.NoError(t, sc.RemoveFile("/music/never.mp3"))
	assert.Empty(t, drainEvents(sc))
}
