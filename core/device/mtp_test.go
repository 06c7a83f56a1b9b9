package device

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Melodex/model"
)

func TestMTPFromTrack(t *testing.T) {
	m := NewMTPMapper("usb-0")

	song, err := m.FromTrack(&MediaTrack{
		ItemID:           4711,
		Title:            "Title",
		Artist:           "Artist",
		Album:            "Album",
		TrackNumber:      9,
		Filesize:         2048,
		ModificationDate: 1700000000,
		Duration:         120000,
		Bitrate:          320,
		Samplerate:       44100,
		UseCount:         6,
		Filetype:         CodecMP3,
	})
	require.NoError(t, err)

	assert.True(t, song.IsValid())
	assert.Equal(t, "mtp://usb-0/4711", song.URLString())
	assert.Equal(t, "4711", song.Basefilename())
	assert.Equal(t, model.FileTypeMPEG, song.FileType())
	assert.Equal(t, 120000*model.NsecPerMsec, song.LengthNanosec())
	assert.Equal(t, 6, song.PlayCount())
	assert.Equal(t, 0, song.Bitdepth())

	// These devices report no creation time of their own.
	assert.Equal(t, song.Mtime(), song.Ctime())
}

func TestMTPCodecTable(t *testing.T) {
	m := NewMTPMapper("usb-0")

	cases := []struct {
		codec MediaCodec
		want  model.FileType
	}{
		{CodecWAV, model.FileTypeWAV},
		{CodecMP2, model.FileTypeMPEG},
		{CodecWMA, model.FileTypeASF},
		{CodecOGG, model.FileTypeOggVorbis},
		{CodecAAC, model.FileTypeMP4},
		{CodecM4A, model.FileTypeMP4},
		{CodecFLAC, model.FileTypeOggFLAC},
	}
	for _, c := range cases {
		song, err := m.FromTrack(&MediaTrack{Filetype: c.codec})
		require.NoError(t, err)
		assert.Equal(t, c.want, song.FileType())
	}

	song, err := m.FromTrack(&MediaTrack{Filetype: MediaCodec(99)})
	require.NoError(t, err)
	assert.Equal(t, model.FileTypeUnknown, song.FileType())
}

func TestMTPToTrack(t *testing.T) {
	m := NewMTPMapper("usb-0")

	song := model.NewSong()
	song.SetValid(true)
	song.SetTitle("Out")
	song.SetURL(&url.URL{Scheme: "file", Path: "/music/o.flac"})
	song.SetBasefilename("o.flac")
	song.SetFileType(model.FileTypeFLAC)
	song.SetLengthNanosec(60000 * model.NsecPerMsec)
	song.SetPlayCount(2)

	got, err := m.ToTrack(song)
	require.NoError(t, err)

	track, ok := got.(*MediaTrack)
	require.True(t, ok)
	assert.Equal(t, "Out", track.Title)
	assert.Equal(t, "o.flac", track.Filename)
	assert.Equal(t, CodecFLAC, track.Filetype)
	assert.Equal(t, int64(60000), track.Duration)
	assert.Equal(t, 2, track.UseCount)
}

func TestMTPToTrackCodecFallbacks(t *testing.T) {
	m := NewMTPMapper("usb-0")

	cases := []struct {
		ft   model.FileType
		want MediaCodec
	}{
		{model.FileTypeOggFLAC, CodecFLAC},
		{model.FileTypeOggSpeex, CodecOGG},
		{model.FileTypeOggVorbis, CodecOGG},
		{model.FileTypeUnknown, CodecUndefinedAudio},
	}
	for _, c := range cases {
		song := model.NewSong()
		song.SetFileType(c.ft)
		got, err := m.ToTrack(song)
		require.NoError(t, err)
		assert.Equal(t, c.want, got.(*MediaTrack).Filetype)
	}
}

func TestMapperRegistry(t *testing.T) {
	Register(NewFlashMapper("/mnt/a"))
	Register(NewMTPMapper("usb-0"))

	mapper, err := MapperFor("flash")
	require.NoError(t, err)
	assert.Equal(t, "flash", mapper.Kind())

	_, err = MapperFor("minidisc")
	assert.Error(t, err)

	assert.Contains(t, Kinds(), "mtp")
}
