package model

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Nanosecond conversion factors. Song timing is kept in nanoseconds;
// device SDKs and engines usually speak milliseconds or seconds.
const (
	NsecPerMsec int64 = 1000000
	NsecPerSec  int64 = 1000000000
)

// portableAppDir is the application directory used to resolve and
// store relative song locators when the deployment is portable. Empty
// means portable mode is off.
var portableAppDir string

// SetPortableAppDir switches portable mode on. Afterwards relative
// locators given to SetURL resolve against dir, and the relational
// adapter stores locators relative to dir when they share its
// filesystem root.
func SetPortableAppDir(dir string) { portableAppDir = dir }

// artCacheProbe is consulted after a song is populated from a row or a
// wire payload with no art of its own. It returns the path of a cached
// cover for the given artist/album and whether that file exists. Wired
// up at composition time so the model stays free of filesystem
// concerns.
var artCacheProbe func(artist, album string) (string, bool)

// SetArtCacheProbe installs the cover cache lookup.
func SetArtCacheProbe(probe func(artist, album string) (string, bool)) {
	artCacheProbe = probe
}

// songData is the shared payload behind a Song handle. All sentinel
// defaults live in newSongData.
type songData struct {
	valid   bool
	id      int
	albumID int

	title       string
	album       string
	artist      string
	albumArtist string
	track       int
	disc        int
	year        int
	origYear    int
	genre       string
	compilation bool // from the file tag
	composer    string
	performer   string
	grouping    string
	comment     string

	beginning int64
	end       int64

	bitrate    int
	samplerate int
	bitdepth   int

	directoryID  int
	basefilename string
	url          *url.URL
	filetype     FileType
	filesize     int
	mtime        int
	ctime        int
	unavailable  bool

	playcount  int
	skipcount  int
	lastplayed int

	compilationDetected bool // from the collection scanner
	compilationOn       bool // user override
	compilationOff      bool // user override, absolute

	artAutomatic CoverArt // guessed by the scanner
	artManual    CoverArt // set by the user, takes priority

	cuePath string // non-empty for virtual sub-tracks of a CUE sheet

	initFromFile   bool // loaded through the tag reader, tags are authoritative
	suspiciousTags bool // the encoding guesser flagged these tags

	shared bool
}

func newSongData() *songData {
	return &songData{
		id:          -1,
		albumID:     -1,
		track:       -1,
		disc:        -1,
		year:        -1,
		origYear:    -1,
		end:         -1,
		bitrate:     -1,
		samplerate:  -1,
		bitdepth:    -1,
		directoryID: -1,
		filesize:    -1,
		mtime:       -1,
		ctime:       -1,
		lastplayed:  -1,
	}
}

// Song is a handle to a shared song payload. Copying the handle is
// O(1); a copy made with Copy shares the payload until either side
// mutates, at which point the mutating side clones it. Plain struct
// assignment aliases the payload and is only safe for read access.
// Concurrent writes to copies that still share a payload need external
// synchronization.
type Song struct {
	d *songData
}

// NewSong returns an invalid song with every field at its sentinel.
func NewSong() Song { return Song{d: newSongData()} }

// emptySongData backs accessors on a zero-value Song. Never mutated.
var emptySongData = newSongData()

func (s Song) data() *songData {
	if s.d == nil {
		return emptySongData
	}
	return s.d
}

// Copy returns a second handle to the same payload. The payload is
// cloned lazily by whichever handle mutates first.
func (s Song) Copy() Song {
	if s.d == nil {
		return Song{}
	}
	s.d.shared = true
	return Song{d: s.d}
}

// detach gives the handle a private payload before a mutation.
func (s *Song) detach() {
	if s.d == nil {
		s.d = newSongData()
		return
	}
	if s.d.shared {
		clone := *s.d
		clone.shared = false
		s.d = &clone
	}
}

// Accessors.

func (s Song) IsValid() bool       { return s.data().valid }
func (s Song) IsUnavailable() bool { return s.data().unavailable }
func (s Song) ID() int             { return s.data().id }
func (s Song) AlbumID() int        { return s.data().albumID }
func (s Song) Title() string       { return s.data().title }
func (s Song) Album() string       { return s.data().album }
func (s Song) Artist() string      { return s.data().artist }
func (s Song) AlbumArtist() string { return s.data().albumArtist }
func (s Song) Composer() string    { return s.data().composer }
func (s Song) Performer() string   { return s.data().performer }
func (s Song) Grouping() string    { return s.data().grouping }
func (s Song) Track() int          { return s.data().track }
func (s Song) Disc() int           { return s.data().disc }
func (s Song) Year() int           { return s.data().year }
func (s Song) OriginalYear() int   { return s.data().origYear }
func (s Song) Genre() string       { return s.data().genre }
func (s Song) Comment() string     { return s.data().comment }
func (s Song) PlayCount() int      { return s.data().playcount }
func (s Song) SkipCount() int      { return s.data().skipcount }
func (s Song) LastPlayed() int     { return s.data().lastplayed }
func (s Song) CuePath() string     { return s.data().cuePath }
func (s Song) HasCue() bool        { return s.data().cuePath != "" }

func (s Song) BeginningNanosec() int64 { return s.data().beginning }
func (s Song) EndNanosec() int64       { return s.data().end }

// LengthNanosec is derived, never stored on its own.
func (s Song) LengthNanosec() int64 { return s.data().end - s.data().beginning }

func (s Song) Bitrate() int       { return s.data().bitrate }
func (s Song) Samplerate() int    { return s.data().samplerate }
func (s Song) Bitdepth() int      { return s.data().bitdepth }
func (s Song) DirectoryID() int   { return s.data().directoryID }
func (s Song) URL() *url.URL      { return s.data().url }
func (s Song) Basefilename() string { return s.data().basefilename }
func (s Song) FileType() FileType { return s.data().filetype }
func (s Song) Filesize() int      { return s.data().filesize }
func (s Song) Mtime() int         { return s.data().mtime }
func (s Song) Ctime() int         { return s.data().ctime }

func (s Song) ArtAutomatic() CoverArt { return s.data().artAutomatic }
func (s Song) ArtManual() CoverArt    { return s.data().artManual }

func (s Song) InitFromFile() bool   { return s.data().initFromFile }
func (s Song) SuspiciousTags() bool { return s.data().suspiciousTags }

// URLString returns the encoded locator, or "" when none is set.
func (s Song) URLString() string {
	if s.data().url == nil {
		return ""
	}
	return s.data().url.String()
}

// Derived values. Recomputed on every read, never cached.

// EffectiveAlbum falls back to the title, which makes singles behave
// as one-track albums of their own.
func (s Song) EffectiveAlbum() string {
	if s.data().album == "" {
		return s.data().title
	}
	return s.data().album
}

func (s Song) EffectiveAlbumArtist() string {
	if s.data().albumArtist == "" {
		return s.data().artist
	}
	return s.data().albumArtist
}

// PlaylistAlbumArtist keeps compilations grouped under their literal
// album artist rather than the per-track one.
func (s Song) PlaylistAlbumArtist() string {
	if s.IsCompilation() {
		return s.data().albumArtist
	}
	return s.EffectiveAlbumArtist()
}

func (s Song) EffectiveOriginalYear() int {
	if s.data().origYear < 0 {
		return s.data().year
	}
	return s.data().origYear
}

func (s Song) Compilation() bool         { return s.data().compilation }
func (s Song) CompilationDetected() bool { return s.data().compilationDetected }
func (s Song) CompilationOn() bool       { return s.data().compilationOn }
func (s Song) CompilationOff() bool      { return s.data().compilationOff }

// IsCompilation combines the tag flag, the scanner heuristic and the
// user override pair. The off override always wins.
func (s Song) IsCompilation() bool {
	d := s.data()
	return (d.compilation || d.compilationDetected || d.compilationOn) && !d.compilationOff
}

func (s Song) IsLossless() bool { return s.data().filetype.IsLossless() }
func (s Song) IsCDDA() bool     { return s.data().filetype == FileTypeCDDA }

// IsCollectionSong reports whether the song lives in the library
// database.
func (s Song) IsCollectionSong() bool { return !s.IsCDDA() && s.ID() != -1 }

// IsEditable reports whether the underlying file's tags can be
// rewritten. CUE sub-tracks share a file and are never editable.
func (s Song) IsEditable() bool {
	d := s.data()
	return d.valid && d.url != nil && d.filetype != FileTypeUnknown && !s.HasCue()
}

func (s Song) HasManuallyUnsetCover() bool { return s.data().artManual.IsUnset() }
func (s Song) HasEmbeddedCover() bool      { return s.data().artAutomatic.IsEmbedded() }

// Setters. Each mutation detaches the payload from shared copies
// first, so writes are whole-field assignments on a private payload.

func (s *Song) SetID(v int)             { s.detach(); s.d.id = v }
func (s *Song) SetAlbumID(v int)        { s.detach(); s.d.albumID = v }
func (s *Song) SetValid(v bool)         { s.detach(); s.d.valid = v }
func (s *Song) SetTitle(v string)       { s.detach(); s.d.title = v }
func (s *Song) SetAlbum(v string)       { s.detach(); s.d.album = v }
func (s *Song) SetArtist(v string)      { s.detach(); s.d.artist = v }
func (s *Song) SetAlbumArtist(v string) { s.detach(); s.d.albumArtist = v }
func (s *Song) SetTrack(v int)          { s.detach(); s.d.track = v }
func (s *Song) SetDisc(v int)           { s.detach(); s.d.disc = v }
func (s *Song) SetYear(v int)           { s.detach(); s.d.year = v }
func (s *Song) SetOriginalYear(v int)   { s.detach(); s.d.origYear = v }
func (s *Song) SetGenre(v string)       { s.detach(); s.d.genre = v }
func (s *Song) SetCompilation(v bool)   { s.detach(); s.d.compilation = v }
func (s *Song) SetComposer(v string)    { s.detach(); s.d.composer = v }
func (s *Song) SetPerformer(v string)   { s.detach(); s.d.performer = v }
func (s *Song) SetGrouping(v string)    { s.detach(); s.d.grouping = v }
func (s *Song) SetComment(v string)     { s.detach(); s.d.comment = v }

// SetBeginningNanosec clamps negative offsets to zero.
func (s *Song) SetBeginningNanosec(v int64) {
	s.detach()
	if v < 0 {
		v = 0
	}
	s.d.beginning = v
}

func (s *Song) SetEndNanosec(v int64) { s.detach(); s.d.end = v }

// SetLengthNanosec rewrites the end marker; length itself is never
// stored.
func (s *Song) SetLengthNanosec(v int64) {
	s.detach()
	s.d.end = s.d.beginning + v
}

func (s *Song) SetBitrate(v int)    { s.detach(); s.d.bitrate = v }
func (s *Song) SetSamplerate(v int) { s.detach(); s.d.samplerate = v }
func (s *Song) SetBitdepth(v int)   { s.detach(); s.d.bitdepth = v }

func (s *Song) SetDirectoryID(v int) { s.detach(); s.d.directoryID = v }

// SetURL stores the locator. In portable mode relative locators are
// resolved against the application directory.
func (s *Song) SetURL(u *url.URL) {
	s.detach()
	if u == nil {
		s.d.url = nil
		return
	}
	if portableAppDir != "" && !u.IsAbs() {
		base := &url.URL{Scheme: "file", Path: portableAppDir + "/"}
		u = base.ResolveReference(u)
	}
	s.d.url = u
}

// setURLFromString parses and stores an encoded locator. A malformed
// locator leaves the field empty; it is not an error.
func (s *Song) setURLFromString(raw string) {
	if raw == "" {
		s.SetURL(nil)
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		s.SetURL(nil)
		return
	}
	s.SetURL(u)
}

func (s *Song) SetBasefilename(v string)   { s.detach(); s.d.basefilename = v }
func (s *Song) SetFileType(v FileType)     { s.detach(); s.d.filetype = v }
func (s *Song) SetFilesize(v int)          { s.detach(); s.d.filesize = v }
func (s *Song) SetMtime(v int)             { s.detach(); s.d.mtime = v }
func (s *Song) SetCtime(v int)             { s.detach(); s.d.ctime = v }
func (s *Song) SetUnavailable(v bool)      { s.detach(); s.d.unavailable = v }
func (s *Song) SetPlayCount(v int)         { s.detach(); s.d.playcount = v }
func (s *Song) SetSkipCount(v int)         { s.detach(); s.d.skipcount = v }
func (s *Song) SetLastPlayed(v int)        { s.detach(); s.d.lastplayed = v }
func (s *Song) SetCompilationDetected(v bool) { s.detach(); s.d.compilationDetected = v }
func (s *Song) SetCompilationOn(v bool)    { s.detach(); s.d.compilationOn = v }
func (s *Song) SetCompilationOff(v bool)   { s.detach(); s.d.compilationOff = v }
func (s *Song) SetArtAutomatic(v CoverArt) { s.detach(); s.d.artAutomatic = v }
func (s *Song) SetArtManual(v CoverArt)    { s.detach(); s.d.artManual = v }
func (s *Song) SetCuePath(v string)        { s.detach(); s.d.cuePath = v }
func (s *Song) SetSuspiciousTags(v bool)   { s.detach(); s.d.suspiciousTags = v }

// ManuallyUnsetCover records the user's explicit "no cover" choice.
func (s *Song) ManuallyUnsetCover() { s.SetArtManual(UnsetCoverArt()) }

// SetEmbeddedCover marks the art as living inside the audio file.
func (s *Song) SetEmbeddedCover() { s.SetArtAutomatic(EmbeddedCoverArt()) }

// Init fills the minimal fields of an ad-hoc song, for entries that
// come from outside the library (radio streams, pasted URLs).
func (s *Song) Init(title, artist, album string, lengthNanosec int64) {
	s.detach()
	s.d.valid = true
	s.d.title = title
	s.d.artist = artist
	s.d.album = album
	s.SetLengthNanosec(lengthNanosec)
}

// InitWithBounds is Init for CUE sub-tracks with explicit begin/end
// markers inside the shared file.
func (s *Song) InitWithBounds(title, artist, album string, beginning, end int64) {
	s.detach()
	s.d.valid = true
	s.d.title = title
	s.d.artist = artist
	s.d.album = album
	s.d.beginning = beginning
	s.d.end = end
}

// InitFromFilePartial populates what can be known from a filename
// alone. The suffix decides whether we consider this a music file at
// all; actual tags come later from the tag reader.
func (s *Song) InitFromFilePartial(filename string) {
	s.detach()
	s.SetURL(&url.URL{Scheme: "file", Path: filename})
	s.d.basefilename = filepath.Base(filename)
	t := FileTypeFromSuffix(filepath.Ext(filename))
	s.d.filetype = t
	s.d.valid = t != FileTypeUnknown
}

// initArtManual adopts a cached cover when the song has no art of its
// own. This reaches into the cover cache directory, so it only runs
// when a probe has been wired up.
func (s *Song) initArtManual() {
	if artCacheProbe == nil {
		return
	}
	d := s.data()
	if !d.artManual.IsEmpty() || !d.artAutomatic.IsEmpty() {
		return
	}
	if path, ok := artCacheProbe(d.artist, d.album); ok {
		s.detach()
		s.d.artManual = CoverArtFromPath(path)
	}
}

// StreamMetadata is what an audio engine reports about the thing it is
// currently playing. All fields are optional; zero values mean the
// engine did not know.
type StreamMetadata struct {
	Title      string
	Artist     string
	Album      string
	Comment    string
	Genre      string
	Bitrate    int
	Samplerate int
	Bitdepth   int
	Length     int64
	Year       int
	TrackNr    int
}

// MergeFromStreamMetadata fills gaps from engine-reported metadata.
// Songs loaded through the tag reader keep their tags; the engine's
// guesses are never better than the file's own.
func (s *Song) MergeFromStreamMetadata(m StreamMetadata) {
	d := s.data()
	if d.initFromFile || (d.url != nil && d.url.Scheme == "file") {
		return
	}

	s.detach()
	s.d.valid = true
	if m.Title != "" {
		s.d.title = m.Title
	}
	if m.Artist != "" {
		s.d.artist = m.Artist
	}
	if m.Album != "" {
		s.d.album = m.Album
	}
	if m.Comment != "" {
		s.d.comment = m.Comment
	}
	if m.Genre != "" {
		s.d.genre = m.Genre
	}
	if m.Bitrate > 0 {
		s.d.bitrate = m.Bitrate
	}
	if m.Samplerate > 0 {
		s.d.samplerate = m.Samplerate
	}
	if m.Bitdepth > 0 {
		s.d.bitdepth = m.Bitdepth
	}
	if m.Length > 0 {
		s.SetLengthNanosec(m.Length)
	}
	if m.Year > 0 {
		s.d.year = m.Year
	}
	if m.TrackNr > 0 {
		s.d.track = m.TrackNr
	}
}

// MergeUserSetData carries user-owned state over from another copy of
// the same song, typically after a re-scan replaced the record.
func (s *Song) MergeUserSetData(other Song) {
	s.SetPlayCount(other.PlayCount())
	s.SetSkipCount(other.SkipCount())
	s.SetLastPlayed(other.LastPlayed())
	s.SetArtManual(other.ArtManual())
}

// localPath returns the filesystem path for file locators, or "".
func (s Song) localPath() string {
	u := s.data().url
	if u == nil || (u.Scheme != "file" && u.Scheme != "") {
		return ""
	}
	return u.Path
}

// containsVarious is the artist prefix suppression check for
// compilation pretty-printing.
func containsVarious(artist string) bool {
	return strings.Contains(strings.ToLower(artist), "various")
}
