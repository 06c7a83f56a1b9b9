package model

import (
	"fmt"
	"path/filepath"
	"strconv"

	"Melodex/logger"
)

// RowValue wraps one raw column value scanned from a song row. The
// MySQL driver hands back []byte for text and int64 for numbers; these
// helpers normalize both and apply the NULL sentinel policy.
type RowValue struct {
	v any
}

// Row wraps a raw value for SongFromRow.
func Row(v any) RowValue { return RowValue{v: v} }

// RowValues wraps a whole scanned row.
func RowValues(vs []any) []RowValue {
	out := make([]RowValue, len(vs))
	for i, v := range vs {
		out[i] = RowValue{v: v}
	}
	return out
}

func (r RowValue) IsNull() bool { return r.v == nil }

// Str returns the value as a string; NULL becomes "".
func (r RowValue) Str() string {
	switch v := r.v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value as an int; NULL becomes the -1 sentinel.
func (r RowValue) Int() int { return r.IntOr(-1) }

// IntOr returns the value as an int, with def standing in for NULL.
func (r RowValue) IntOr(def int) int {
	return int(r.Int64Or(int64(def)))
}

// Int64Or returns the value as an int64, with def standing in for NULL.
func (r RowValue) Int64Or(def int64) int64 {
	switch v := r.v.(type) {
	case nil:
		return def
	case int64:
		return v
	case int:
		return int64(v)
	case []byte:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return n
		}
		return def
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		return def
	default:
		return def
	}
}

// Bool treats NULL and zero as false.
func (r RowValue) Bool() bool { return r.Int64Or(0) != 0 }

// songColumnSetters maps each select column to the field it populates.
// The two effective_* columns and compilation_effective are write-only
// projections, so their entries deliberately do nothing. Completeness
// against SongSelectColumns is enforced in init below.
var songColumnSetters = map[string]func(*Song, RowValue){
	"id":           func(s *Song, v RowValue) { s.SetID(v.Int()) },
	"title":        func(s *Song, v RowValue) { s.SetTitle(v.Str()) },
	"album":        func(s *Song, v RowValue) { s.SetAlbum(v.Str()) },
	"artist":       func(s *Song, v RowValue) { s.SetArtist(v.Str()) },
	"albumartist":  func(s *Song, v RowValue) { s.SetAlbumArtist(v.Str()) },
	"track":        func(s *Song, v RowValue) { s.SetTrack(v.Int()) },
	"disc":         func(s *Song, v RowValue) { s.SetDisc(v.Int()) },
	"year":         func(s *Song, v RowValue) { s.SetYear(v.Int()) },
	"originalyear": func(s *Song, v RowValue) { s.SetOriginalYear(v.Int()) },
	"genre":        func(s *Song, v RowValue) { s.SetGenre(v.Str()) },
	"compilation":  func(s *Song, v RowValue) { s.SetCompilation(v.Bool()) },
	"composer":     func(s *Song, v RowValue) { s.SetComposer(v.Str()) },
	"performer":    func(s *Song, v RowValue) { s.SetPerformer(v.Str()) },
	"grouping":     func(s *Song, v RowValue) { s.SetGrouping(v.Str()) },
	"comment":      func(s *Song, v RowValue) { s.SetComment(v.Str()) },

	"beginning": func(s *Song, v RowValue) { s.SetBeginningNanosec(v.Int64Or(0)) },
	"length":    func(s *Song, v RowValue) { s.SetLengthNanosec(v.Int64Or(-1)) },

	"bitrate":    func(s *Song, v RowValue) { s.SetBitrate(v.Int()) },
	"samplerate": func(s *Song, v RowValue) { s.SetSamplerate(v.Int()) },
	"bitdepth":   func(s *Song, v RowValue) { s.SetBitdepth(v.Int()) },

	"directory_id": func(s *Song, v RowValue) { s.SetDirectoryID(v.Int()) },
	"filename": func(s *Song, v RowValue) {
		s.setURLFromString(v.Str())
		if path := s.localPath(); path != "" {
			s.SetBasefilename(filepath.Base(path))
		}
	},
	"filetype":    func(s *Song, v RowValue) { s.SetFileType(FileTypeFromValue(v.Int())) },
	"filesize":    func(s *Song, v RowValue) { s.SetFilesize(v.Int()) },
	"mtime":       func(s *Song, v RowValue) { s.SetMtime(v.Int()) },
	"ctime":       func(s *Song, v RowValue) { s.SetCtime(v.Int()) },
	"unavailable": func(s *Song, v RowValue) { s.SetUnavailable(v.Bool()) },

	"playcount":  func(s *Song, v RowValue) { s.SetPlayCount(v.IntOr(0)) },
	"skipcount":  func(s *Song, v RowValue) { s.SetSkipCount(v.IntOr(0)) },
	"lastplayed": func(s *Song, v RowValue) { s.SetLastPlayed(v.Int()) },

	"compilation_detected":  func(s *Song, v RowValue) { s.SetCompilationDetected(v.Bool()) },
	"compilation_on":        func(s *Song, v RowValue) { s.SetCompilationOn(v.Bool()) },
	"compilation_off":       func(s *Song, v RowValue) { s.SetCompilationOff(v.Bool()) },
	"compilation_effective": func(s *Song, v RowValue) {},

	"art_automatic": func(s *Song, v RowValue) { s.SetArtAutomatic(ParseCoverArt(v.Str())) },
	"art_manual":    func(s *Song, v RowValue) { s.SetArtManual(ParseCoverArt(v.Str())) },

	"effective_albumartist":  func(s *Song, v RowValue) {},
	"effective_originalyear": func(s *Song, v RowValue) {},

	"cue_path": func(s *Song, v RowValue) { s.SetCuePath(v.Str()) },
}

func init() {
	// A schema column without a setter would otherwise only surface as
	// a mispopulated song at runtime.
	for _, c := range SongSelectColumns {
		if _, ok := songColumnSetters[c]; !ok {
			panic("model: no row setter for song column " + c)
		}
	}
}

// SongFromRow populates a song from a scanned result set, matching
// columns by name in SongSelectColumns order. A result column we do
// not recognize is logged and skipped; an expected column missing from
// the result set stops population there, leaving the remaining fields
// at their sentinels. Neither is fatal. reliableMetadata records
// whether the row originally came from the tag reader.
func SongFromRow(cols []string, vals []RowValue, reliableMetadata bool) Song {
	s := NewSong()

	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
		if _, ok := songColumnSetters[c]; !ok {
			logger.Warn("Unrecognized song column in result set", logger.String("column", c))
		}
	}

	for i, c := range SongSelectColumns {
		x, ok := idx[c]
		if !ok || x >= len(vals) {
			logger.Warn("Song row truncated, leaving remaining fields unset",
				logger.String("column", c), logger.Int("populated", i))
			break
		}
		songColumnSetters[c](&s, vals[x])
	}

	s.SetValid(true)
	s.d.initFromFile = reliableMetadata
	s.initArtManual()
	return s
}
