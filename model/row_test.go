package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowFromSong simulates the driver: the id column followed by the
// song's own bind values.
func rowFromSong(id int, s Song) (cols []string, vals []RowValue) {
	raw := append([]any{id}, s.BindValues()...)
	return SongSelectColumns, RowValues(raw)
}

func TestSongFromRowRoundTrip(t *testing.T) {
	s := NewSong()
	s.SetValid(true)
	s.SetTitle("Title")
	s.SetAlbum("Album")
	s.SetArtist("Artist")
	s.SetAlbumArtist("Album Artist")
	s.SetTrack(7)
	s.SetDisc(1)
	s.SetYear(2001)
	s.SetOriginalYear(1998)
	s.SetGenre("Genre")
	s.SetComposer("Composer")
	s.SetComment("Comment")
	s.SetBeginningNanosec(5 * NsecPerSec)
	s.SetLengthNanosec(200 * NsecPerSec)
	s.SetBitrate(320)
	s.SetSamplerate(44100)
	s.SetBitdepth(16)
	s.SetDirectoryID(3)
	s.SetURL(&url.URL{Scheme: "file", Path: "/music/t.mp3"})
	s.SetFileType(FileTypeMPEG)
	s.SetFilesize(123456)
	s.SetMtime(1700000000)
	s.SetCtime(1690000000)
	s.SetPlayCount(9)
	s.SetSkipCount(2)
	s.SetLastPlayed(1710000000)
	s.SetCompilation(true)
	s.SetArtManual(CoverArtFromPath("/covers/t.jpg"))
	s.SetCuePath("/music/t.cue")

	cols, vals := rowFromSong(42, s)
	got := SongFromRow(cols, vals, true)

	assert.True(t, got.IsValid())
	assert.True(t, got.InitFromFile())
	assert.Equal(t, 42, got.ID())
	assert.Equal(t, "file:///music/t.mp3", got.URLString())
	assert.Equal(t, "t.mp3", got.Basefilename())
	assert.True(t, s.MetadataEqual(got))
}

func TestSongFromRowNullPolicy(t *testing.T) {
	s := NewSong()
	cols, vals := rowFromSong(1, s)
	got := SongFromRow(cols, vals, false)

	// NULL numerics come back as the -1 sentinel, counters as zero.
	assert.Equal(t, -1, got.Track())
	assert.Equal(t, -1, got.Year())
	assert.Equal(t, -1, got.Bitrate())
	assert.Equal(t, int64(-1), got.LengthNanosec())
	assert.Equal(t, 0, got.PlayCount())
	assert.Equal(t, 0, got.SkipCount())
	assert.False(t, got.InitFromFile())
}

func TestSongFromRowZeroSurvives(t *testing.T) {
	s := NewSong()
	s.SetTrack(0)
	s.SetYear(0)
	cols, vals := rowFromSong(1, s)
	got := SongFromRow(cols, vals, false)

	assert.Equal(t, 0, got.Track())
	assert.Equal(t, 0, got.Year())
}

func TestSongFromRowDriverBytes(t *testing.T) {
	// The MySQL driver hands text back as []byte and numbers as int64.
	s := NewSong()
	s.SetTitle("Bytes")
	s.SetTrack(4)

	raw := append([]any{int64(5)}, s.BindValues()...)
	for i, v := range raw {
		switch x := v.(type) {
		case string:
			raw[i] = []byte(x)
		case int:
			raw[i] = int64(x)
		}
	}

	got := SongFromRow(SongSelectColumns, RowValues(raw), false)
	assert.Equal(t, 5, got.ID())
	assert.Equal(t, "Bytes", got.Title())
	assert.Equal(t, 4, got.Track())
}

func TestSongFromRowTruncatedResult(t *testing.T) {
	s := NewSong()
	s.SetTitle("Partial")
	s.SetArtist("Artist")

	cols, vals := rowFromSong(9, s)

	// Only the first ten columns survived the query.
	got := SongFromRow(cols[:10], vals[:10], false)

	assert.True(t, got.IsValid())
	assert.Equal(t, 9, got.ID())
	assert.Equal(t, "Partial", got.Title())
	assert.Equal(t, "Artist", got.Artist())

	// Everything past the truncation point stays at its sentinel.
	assert.Equal(t, -1, got.Bitrate())
	assert.Equal(t, "", got.URLString())
}

func TestSongFromRowUnknownColumn(t *testing.T) {
	s := NewSong()
	s.SetTitle("Known")

	cols, vals := rowFromSong(2, s)
	cols = append([]string{}, cols...)
	cols = append(cols, "rating")
	vals = append(vals, Row(int64(5)))

	got := SongFromRow(cols, vals, false)
	assert.Equal(t, "Known", got.Title())
	assert.Equal(t, 2, got.ID())
}

func TestRowValueHelpers(t *testing.T) {
	assert.True(t, Row(nil).IsNull())
	assert.Equal(t, "", Row(nil).Str())
	assert.Equal(t, -1, Row(nil).Int())
	assert.Equal(t, 0, Row(nil).IntOr(0))
	assert.False(t, Row(nil).Bool())

	assert.Equal(t, "abc", Row([]byte("abc")).Str())
	assert.Equal(t, 12, Row([]byte("12")).Int())
	assert.Equal(t, 7, Row(int64(7)).Int())
	assert.True(t, Row(int64(1)).Bool())

	require.Equal(t, int64(9), Row("9").Int64Or(-1))
}
