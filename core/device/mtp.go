package device

import (
	"fmt"
	"net/url"
	"strconv"

	"Melodex/model"
)

// MediaCodec is the codec tag an MTP device reports for a track.
type MediaCodec int

const (
	CodecUndefinedAudio MediaCodec = iota
	CodecWAV
	CodecMP3
	CodecMP2
	CodecWMA
	CodecASF
	CodecOGG
	CodecMP4
	CodecAAC
	CodecM4A
	CodecFLAC
)

// MediaTrack is the track record exchanged with MTP devices. Duration
// is milliseconds; ItemID names the object on the device.
type MediaTrack struct {
	ItemID    uint32
	ParentID  uint32
	StorageID uint32

	Title    string
	Artist   string
	Album    string
	Genre    string
	Composer string
	Filename string

	TrackNumber int

	Filesize         int
	ModificationDate int

	Duration int64 // ms

	Bitrate     int
	BitrateType int
	Samplerate  int
	NoChannels  int
	WaveCodec   int

	UseCount int

	Filetype MediaCodec
}

// codecFileTypes maps a device codec onto the library file type.
// Anything the table misses reads back as unknown rather than failing.
var codecFileTypes = map[MediaCodec]model.FileType{
	CodecWAV:  model.FileTypeWAV,
	CodecMP3:  model.FileTypeMPEG,
	CodecMP2:  model.FileTypeMPEG,
	CodecWMA:  model.FileTypeASF,
	CodecOGG:  model.FileTypeOggVorbis,
	CodecMP4:  model.FileTypeMP4,
	CodecAAC:  model.FileTypeMP4,
	CodecM4A:  model.FileTypeMP4,
	CodecFLAC: model.FileTypeOggFLAC,
}

// fileTypeCodecs is the write direction. It is not the inverse of
// codecFileTypes because several file types collapse onto one codec.
var fileTypeCodecs = map[model.FileType]MediaCodec{
	model.FileTypeASF:       CodecASF,
	model.FileTypeMP4:       CodecMP4,
	model.FileTypeMPEG:      CodecMP3,
	model.FileTypeFLAC:      CodecFLAC,
	model.FileTypeOggFLAC:   CodecFLAC,
	model.FileTypeOggSpeex:  CodecOGG,
	model.FileTypeOggVorbis: CodecOGG,
	model.FileTypeWAV:       CodecWAV,
}

// MTPMapper converts MediaTrack records. The host names the device in
// the mtp:// URLs it builds.
type MTPMapper struct {
	host string
}

func NewMTPMapper(host string) *MTPMapper {
	return &MTPMapper{host: host}
}

func (m *MTPMapper) Kind() string { return "mtp" }

func (m *MTPMapper) FromTrack(track any) (model.Song, error) {
	t, ok := track.(*MediaTrack)
	if !ok {
		return model.Song{}, fmt.Errorf("mtp mapper got %T", track)
	}

	song := model.NewSong()
	song.SetValid(true)

	song.SetTitle(t.Title)
	song.SetArtist(t.Artist)
	song.SetAlbum(t.Album)
	song.SetGenre(t.Genre)
	song.SetComposer(t.Composer)
	song.SetTrack(t.TrackNumber)

	itemID := strconv.FormatUint(uint64(t.ItemID), 10)
	song.SetURL(&url.URL{Scheme: "mtp", Host: m.host, Path: "/" + itemID})
	song.SetBasefilename(itemID)
	song.SetFilesize(t.Filesize)
	song.SetMtime(t.ModificationDate)
	song.SetCtime(t.ModificationDate)

	song.SetLengthNanosec(t.Duration * model.NsecPerMsec)

	song.SetSamplerate(t.Samplerate)
	song.SetBitdepth(0)
	song.SetBitrate(t.Bitrate)

	song.SetPlayCount(t.UseCount)

	if ft, ok := codecFileTypes[t.Filetype]; ok {
		song.SetFileType(ft)
	} else {
		song.SetFileType(model.FileTypeUnknown)
	}

	return song, nil
}

func (m *MTPMapper) ToTrack(song model.Song) (any, error) {
	codec, ok := fileTypeCodecs[song.FileType()]
	if !ok {
		codec = CodecUndefinedAudio
	}

	t := &MediaTrack{
		Title:    song.Title(),
		Artist:   song.Artist(),
		Album:    song.Album(),
		Genre:    song.Genre(),
		Composer: song.Composer(),
		Filename: song.Basefilename(),

		TrackNumber: song.Track(),

		Filesize:         song.Filesize(),
		ModificationDate: song.Mtime(),

		Duration: song.LengthNanosec() / model.NsecPerMsec,

		Bitrate:    song.Bitrate(),
		Samplerate: song.Samplerate(),

		UseCount: song.PlayCount(),

		Filetype: codec,
	}
	return t, nil
}
