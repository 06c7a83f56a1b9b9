package device

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"Melodex/model"
)

// FlashTrack is the track record of iPod-style flash players. String
// fields are UTF-8, Tracklen is milliseconds, and Path uses ':' as the
// on-device separator.
type FlashTrack struct {
	Title       string
	Album       string
	Artist      string
	AlbumArtist string
	Genre       string
	Composer    string
	Grouping    string
	Comment     string

	TrackNr int
	DiscNr  int
	Year    int

	Compilation bool

	Tracklen   int64 // ms
	Bitrate    int
	Samplerate int

	// Type2 is set for MPEG tracks and clear for MP4, the only two
	// codecs these players store.
	Type2     bool
	MediaType int

	Path string

	Size         int
	TimeModified int
	TimeAdded    int

	PlayCount  int
	SkipCount  int
	TimePlayed int
}

const mediaTypeAudio = 1

// FlashMapper converts FlashTrack records. The prefix is the mount
// point, or a remote base URL when it contains a scheme.
type FlashMapper struct {
	prefix string
}

func NewFlashMapper(prefix string) *FlashMapper {
	return &FlashMapper{prefix: prefix}
}

func (m *FlashMapper) Kind() string { return "flash" }

func (m *FlashMapper) FromTrack(track any) (model.Song, error) {
	t, ok := track.(*FlashTrack)
	if !ok {
		return model.Song{}, fmt.Errorf("flash mapper got %T", track)
	}

	song := model.NewSong()
	song.SetValid(true)

	song.SetTitle(t.Title)
	song.SetAlbum(t.Album)
	song.SetArtist(t.Artist)
	song.SetAlbumArtist(t.AlbumArtist)
	song.SetTrack(t.TrackNr)
	song.SetDisc(t.DiscNr)
	song.SetYear(t.Year)
	song.SetGenre(t.Genre)
	song.SetCompilation(t.Compilation)
	song.SetComposer(t.Composer)
	song.SetGrouping(t.Grouping)
	song.SetComment(t.Comment)

	song.SetLengthNanosec(t.Tracklen * model.NsecPerMsec)

	song.SetBitrate(t.Bitrate)
	song.SetSamplerate(t.Samplerate)
	song.SetBitdepth(-1)

	filename := strings.ReplaceAll(t.Path, ":", "/")
	if strings.Contains(m.prefix, "://") {
		if u, err := url.Parse(m.prefix + filename); err == nil {
			song.SetURL(u)
		}
	} else {
		song.SetURL(&url.URL{Scheme: "file", Path: m.prefix + filename})
	}
	song.SetBasefilename(filepath.Base(filename))

	if t.Type2 {
		song.SetFileType(model.FileTypeMPEG)
	} else {
		song.SetFileType(model.FileTypeMP4)
	}
	song.SetFilesize(t.Size)
	song.SetMtime(t.TimeModified)
	song.SetCtime(t.TimeAdded)

	song.SetPlayCount(t.PlayCount)
	song.SetSkipCount(t.SkipCount)
	song.SetLastPlayed(t.TimePlayed)

	return song, nil
}

func (m *FlashMapper) ToTrack(song model.Song) (any, error) {
	t := &FlashTrack{
		Title:       song.Title(),
		Album:       song.Album(),
		Artist:      song.Artist(),
		AlbumArtist: song.AlbumArtist(),
		TrackNr:     song.Track(),
		DiscNr:      song.Disc(),
		Year:        song.Year(),
		Genre:       song.Genre(),
		Compilation: song.Compilation(),
		Composer:    song.Composer(),
		Grouping:    song.Grouping(),
		Comment:     song.Comment(),

		Tracklen:   song.LengthNanosec() / model.NsecPerMsec,
		Bitrate:    song.Bitrate(),
		Samplerate: song.Samplerate(),

		Type2:     song.FileType() != model.FileTypeMP4,
		MediaType: mediaTypeAudio,

		Size:         song.Filesize(),
		TimeModified: song.Mtime(),
		TimeAdded:    song.Ctime(),

		PlayCount:  song.PlayCount(),
		SkipCount:  song.SkipCount(),
		TimePlayed: song.LastPlayed(),
	}
	return t, nil
}
