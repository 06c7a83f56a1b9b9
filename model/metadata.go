package model

import "encoding/json"

// SongMetadataVersion is bumped whenever the wire message changes
// incompatibly. Readers ignore fields they do not know.
const SongMetadataVersion = 1

// SongMetadata is the wire form of a song, exchanged with the tag
// reader and cached in Redis. It carries every persisted field except
// the compilation override flags and the derived projections.
// ArtAutomatic and PlayCount are optional: a nil pointer means the
// sender had nothing to say and the receiver keeps its default.
type SongMetadata struct {
	Version int  `json:"version"`
	Valid   bool `json:"valid"`

	Title       string `json:"title,omitempty"`
	Album       string `json:"album,omitempty"`
	Artist      string `json:"artist,omitempty"`
	AlbumArtist string `json:"albumartist,omitempty"`
	Composer    string `json:"composer,omitempty"`
	Performer   string `json:"performer,omitempty"`
	Grouping    string `json:"grouping,omitempty"`
	Track       int    `json:"track"`
	Disc        int    `json:"disc"`
	Year        int    `json:"year"`
	OriginalYear int   `json:"originalyear"`
	Genre       string `json:"genre,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Compilation bool   `json:"compilation"`

	Beginning int64 `json:"beginning_nanosec"`
	Length    int64 `json:"length_nanosec"`

	Bitrate    int `json:"bitrate"`
	Samplerate int `json:"samplerate"`
	Bitdepth   int `json:"bitdepth"`

	DirectoryID  int    `json:"directory_id"`
	URL          string `json:"url,omitempty"`
	Basefilename string `json:"basefilename,omitempty"`
	FileType     int    `json:"filetype"`
	Filesize     int    `json:"filesize"`
	Mtime        int    `json:"mtime"`
	Ctime        int    `json:"ctime"`
	Unavailable  bool   `json:"unavailable"`

	PlayCount  *int `json:"playcount,omitempty"`
	SkipCount  int  `json:"skipcount"`
	LastPlayed int  `json:"lastplayed"`

	ArtAutomatic *string `json:"art_automatic,omitempty"`
	ArtManual    string  `json:"art_manual,omitempty"`

	CuePath        string `json:"cue_path,omitempty"`
	SuspiciousTags bool   `json:"suspicious_tags"`
}

// Marshal encodes the message.
func (m SongMetadata) Marshal() ([]byte, error) { return json.Marshal(m) }

// UnmarshalSongMetadata decodes a wire payload.
func UnmarshalSongMetadata(data []byte) (SongMetadata, error) {
	var m SongMetadata
	err := json.Unmarshal(data, &m)
	return m, err
}

// InitFromMetadata populates the song from a wire message. Metadata
// arriving this way came from an authoritative tag read, so the song
// is marked init_from_file.
func (s *Song) InitFromMetadata(m SongMetadata) {
	s.detach()
	s.d.initFromFile = true
	s.d.valid = m.Valid
	s.d.title = m.Title
	s.d.album = m.Album
	s.d.artist = m.Artist
	s.d.albumArtist = m.AlbumArtist
	s.d.composer = m.Composer
	s.d.performer = m.Performer
	s.d.grouping = m.Grouping
	s.d.track = m.Track
	s.d.disc = m.Disc
	s.d.year = m.Year
	s.d.origYear = m.OriginalYear
	s.d.genre = m.Genre
	s.d.comment = m.Comment
	s.d.compilation = m.Compilation
	s.SetBeginningNanosec(m.Beginning)
	s.SetLengthNanosec(m.Length)
	s.d.bitrate = m.Bitrate
	s.d.samplerate = m.Samplerate
	s.d.bitdepth = m.Bitdepth
	s.d.directoryID = m.DirectoryID
	s.setURLFromString(m.URL)
	s.d.basefilename = m.Basefilename
	s.d.filetype = FileTypeFromValue(m.FileType)
	s.d.filesize = m.Filesize
	s.d.mtime = m.Mtime
	s.d.ctime = m.Ctime
	s.d.unavailable = m.Unavailable
	s.d.skipcount = m.SkipCount
	s.d.lastplayed = m.LastPlayed
	s.d.artManual = ParseCoverArt(m.ArtManual)
	s.d.cuePath = m.CuePath
	s.d.suspiciousTags = m.SuspiciousTags

	if m.ArtAutomatic != nil {
		s.d.artAutomatic = ParseCoverArt(*m.ArtAutomatic)
	}
	if m.PlayCount != nil {
		s.d.playcount = *m.PlayCount
	}

	s.initArtManual()
}

// ToMetadata projects the song onto the wire message. Both optional
// fields are present on outgoing messages.
func (s Song) ToMetadata() SongMetadata {
	d := s.data()
	artAuto := d.artAutomatic.String()
	playCount := d.playcount
	return SongMetadata{
		Version: SongMetadataVersion,
		Valid:   d.valid,

		Title:        d.title,
		Album:        d.album,
		Artist:       d.artist,
		AlbumArtist:  d.albumArtist,
		Composer:     d.composer,
		Performer:    d.performer,
		Grouping:     d.grouping,
		Track:        d.track,
		Disc:         d.disc,
		Year:         d.year,
		OriginalYear: d.origYear,
		Genre:        d.genre,
		Comment:      d.comment,
		Compilation:  d.compilation,

		Beginning: d.beginning,
		Length:    s.LengthNanosec(),

		Bitrate:    d.bitrate,
		Samplerate: d.samplerate,
		Bitdepth:   d.bitdepth,

		DirectoryID:  d.directoryID,
		URL:          s.URLString(),
		Basefilename: d.basefilename,
		FileType:     int(d.filetype),
		Filesize:     d.filesize,
		Mtime:        d.mtime,
		Ctime:        d.ctime,
		Unavailable:  d.unavailable,

		PlayCount:  &playCount,
		SkipCount:  d.skipcount,
		LastPlayed: d.lastplayed,

		ArtAutomatic: &artAuto,
		ArtManual:    d.artManual.String(),

		CuePath:        d.cuePath,
		SuspiciousTags: d.suspiciousTags,
	}
}
