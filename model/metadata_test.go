package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataWireRoundTrip(t *testing.T) {
	s := NewSong()
	s.SetValid(true)
	s.SetTitle("Wire")
	s.SetAlbum("Album")
	s.SetArtist("Artist")
	s.SetTrack(3)
	s.SetYear(1999)
	s.SetBeginningNanosec(2 * NsecPerSec)
	s.SetLengthNanosec(180 * NsecPerSec)
	s.SetBitrate(256)
	s.SetSamplerate(48000)
	s.SetBitdepth(24)
	s.SetURL(&url.URL{Scheme: "file", Path: "/music/w.flac"})
	s.SetFileType(FileTypeFLAC)
	s.SetFilesize(99)
	s.SetMtime(1700000001)
	s.SetCtime(1690000001)
	s.SetPlayCount(4)
	s.SetSkipCount(1)
	s.SetLastPlayed(1710000001)

	payload, err := s.ToMetadata().Marshal()
	require.NoError(t, err)

	m, err := UnmarshalSongMetadata(payload)
	require.NoError(t, err)
	assert.Equal(t, SongMetadataVersion, m.Version)

	var got Song
	got.InitFromMetadata(m)

	assert.True(t, got.IsValid())
	assert.True(t, got.InitFromFile())
	assert.Equal(t, 4, got.PlayCount())
	assert.Equal(t, 180*NsecPerSec, got.LengthNanosec())
	assert.Equal(t, 2*NsecPerSec, got.BeginningNanosec())
	assert.True(t, s.MetadataEqual(got))
}

func TestMetadataLengthIsReconstructed(t *testing.T) {
	// Beginning and length travel separately; the receiver rebuilds the
	// end offset from their sum.
	m := SongMetadata{
		Valid:     true,
		Beginning: 10 * NsecPerSec,
		Length:    30 * NsecPerSec,
	}

	var got Song
	got.InitFromMetadata(m)
	assert.Equal(t, 10*NsecPerSec, got.BeginningNanosec())
	assert.Equal(t, 40*NsecPerSec, got.EndNanosec())
	assert.Equal(t, 30*NsecPerSec, got.LengthNanosec())
}

func TestMetadataOptionalPlayCount(t *testing.T) {
	// An absent playcount must not clobber what the receiver has.
	m := SongMetadata{Valid: true, Title: "Partial"}

	var got Song
	got.SetPlayCount(12)
	got.InitFromMetadata(m)
	assert.Equal(t, 12, got.PlayCount())

	n := 7
	m.PlayCount = &n
	got.InitFromMetadata(m)
	assert.Equal(t, 7, got.PlayCount())
}

func TestMetadataOptionalArtAutomatic(t *testing.T) {
	embedded := EmbeddedCoverArt().String()

	var got Song
	got.SetArtAutomatic(CoverArtFromPath("/covers/old.jpg"))

	got.InitFromMetadata(SongMetadata{Valid: true})
	assert.Equal(t, "/covers/old.jpg", got.ArtAutomatic().Path())

	got.InitFromMetadata(SongMetadata{Valid: true, ArtAutomatic: &embedded})
	assert.True(t, got.ArtAutomatic().IsEmbedded())
}

func TestMetadataUnknownFieldsIgnored(t *testing.T) {
	m, err := UnmarshalSongMetadata([]byte(`{"version":99,"valid":true,"title":"New","hologram":true}`))
	require.NoError(t, err)
	assert.Equal(t, 99, m.Version)
	assert.Equal(t, "New", m.Title)
}
