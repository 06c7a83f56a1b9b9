package model

import (
	"path/filepath"
	"strings"
)

// SongColumns is the versioned, ordered schema of the songs table.
// Insert and update binds follow this exact order, and the row scanner
// checks itself against it at init time. Append only; never reorder.
var SongColumns = []string{
	"title",
	"album",
	"artist",
	"albumartist",
	"track",
	"disc",
	"year",
	"originalyear",
	"genre",
	"compilation",
	"composer",
	"performer",
	"grouping",
	"comment",

	"beginning",
	"length",

	"bitrate",
	"samplerate",
	"bitdepth",

	"directory_id",
	"filename",
	"filetype",
	"filesize",
	"mtime",
	"ctime",
	"unavailable",

	"playcount",
	"skipcount",
	"lastplayed",

	"compilation_detected",
	"compilation_on",
	"compilation_off",
	"compilation_effective",

	"art_automatic",
	"art_manual",

	"effective_albumartist",
	"effective_originalyear",

	"cue_path",
}

// FtsColumns is the parallel full-text index column set, covering the
// searchable string subset of SongColumns.
var FtsColumns = []string{
	"ftstitle",
	"ftsalbum",
	"ftsartist",
	"ftsalbumartist",
	"ftscomposer",
	"ftsperformer",
	"ftsgrouping",
	"ftsgenre",
	"ftscomment",
}

// SongSelectColumns is what song queries select: the id first, then
// the schema columns.
var SongSelectColumns = append([]string{"id"}, SongColumns...)

var (
	SongColumnSpec = strings.Join(SongColumns, ", ")
	SongBindSpec   = placeholders(len(SongColumns))
	SongUpdateSpec = updateify(SongColumns)

	SongSelectSpec = strings.Join(SongSelectColumns, ", ")

	FtsColumnSpec = strings.Join(FtsColumns, ", ")
	FtsBindSpec   = placeholders(len(FtsColumns))
	FtsUpdateSpec = updateify(FtsColumns)
)

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func updateify(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " = ?"
	}
	return strings.Join(parts, ", ")
}

// JoinSpec qualifies the select columns with a table name, for queries
// that join songs against other tables.
func JoinSpec(table string) string {
	parts := make([]string, len(SongSelectColumns))
	for i, c := range SongSelectColumns {
		parts[i] = table + "." + c
	}
	return strings.Join(parts, ", ")
}

// nullIfUnset maps the -1 in-memory sentinel to SQL NULL.
func nullIfUnset(v int) any {
	if v == -1 {
		return nil
	}
	return v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// FilenameValue is the stored locator, the value of the filename
// column. In portable mode, locators on the application's filesystem
// root are stored relative to the binary so the library survives being
// moved between machines. Lookups against the filename column must go
// through this same projection.
func (s Song) FilenameValue() string {
	u := s.data().url
	if u == nil {
		return ""
	}
	if portableAppDir != "" {
		if path := s.localPath(); path != "" &&
			filepath.VolumeName(path) == filepath.VolumeName(portableAppDir) {
			if rel, err := filepath.Rel(portableAppDir, path); err == nil {
				return rel
			}
		}
	}
	return u.String()
}

// BindValues returns the insert/update parameters in SongColumns
// order. Ints at their -1 sentinel become NULL, except the playback
// counters which keep their zero. The three effective_* columns are
// write-only projections computed here and never read back.
func (s Song) BindValues() []any {
	d := s.data()

	// A zero or negative length means unknown and stores as NULL.
	var length any
	if l := s.LengthNanosec(); l > 0 {
		length = l
	}

	return []any{
		d.title,
		d.album,
		d.artist,
		d.albumArtist,
		nullIfUnset(d.track),
		nullIfUnset(d.disc),
		nullIfUnset(d.year),
		nullIfUnset(d.origYear),
		d.genre,
		boolToInt(d.compilation),
		d.composer,
		d.performer,
		d.grouping,
		d.comment,

		d.beginning,
		length,

		nullIfUnset(d.bitrate),
		nullIfUnset(d.samplerate),
		nullIfUnset(d.bitdepth),

		nullIfUnset(d.directoryID),
		s.FilenameValue(),
		int(d.filetype),
		nullIfUnset(d.filesize),
		nullIfUnset(d.mtime),
		nullIfUnset(d.ctime),
		boolToInt(d.unavailable),

		d.playcount,
		d.skipcount,
		nullIfUnset(d.lastplayed),

		boolToInt(d.compilationDetected),
		boolToInt(d.compilationOn),
		boolToInt(d.compilationOff),
		boolToInt(s.IsCompilation()),

		d.artAutomatic.String(),
		d.artManual.String(),

		s.EffectiveAlbumArtist(),
		nullIfUnset(s.EffectiveOriginalYear()),

		d.cuePath,
	}
}

// FtsBindValues returns the full-text row, a direct copy of the
// searchable fields in FtsColumns order.
func (s Song) FtsBindValues() []any {
	d := s.data()
	return []any{
		d.title,
		d.album,
		d.artist,
		d.albumArtist,
		d.composer,
		d.performer,
		d.grouping,
		d.genre,
		d.comment,
	}
}
