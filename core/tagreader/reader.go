package tagreader

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"Melodex/model"

	"github.com/dhowden/tag"
)

// ReadFile reads the tags of an audio file and returns the wire
// metadata message plus any embedded cover image. The returned
// metadata is authoritative; callers that cannot read tags should fall
// back to Song.InitFromFilePartial instead.
func ReadFile(path string) (*model.SongMetadata, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	fileURL := (&url.URL{Scheme: "file", Path: path}).String()
	mtime := int(info.ModTime().Unix())

	track, _ := meta.Track()
	disc, _ := meta.Disc()

	m := &model.SongMetadata{
		Version: model.SongMetadataVersion,
		Valid:   true,

		Title:       strings.TrimSpace(meta.Title()),
		Album:       strings.TrimSpace(meta.Album()),
		Artist:      strings.TrimSpace(meta.Artist()),
		AlbumArtist: strings.TrimSpace(meta.AlbumArtist()),
		Composer:    strings.TrimSpace(meta.Composer()),
		Genre:       strings.TrimSpace(meta.Genre()),
		Comment:     strings.TrimSpace(meta.Comment()),

		Track:        intOrUnset(track),
		Disc:         intOrUnset(disc),
		Year:         intOrUnset(meta.Year()),
		OriginalYear: -1,

		// Timing and signal properties come from the audio engine, not
		// the tag container.
		Length:     -1,
		Bitrate:    -1,
		Samplerate: -1,
		Bitdepth:   -1,

		DirectoryID:  -1,
		URL:          fileURL,
		Basefilename: filepath.Base(path),
		FileType:     int(fileTypeOf(meta, path)),
		Filesize:     int(info.Size()),
		Mtime:        mtime,
		Ctime:        mtime,
		LastPlayed:   -1,

		SuspiciousTags: suspicious(meta),
	}

	var picture []byte
	if pic := meta.Picture(); pic != nil && len(pic.Data) > 0 {
		picture = pic.Data
		embedded := model.EmbeddedCoverArt().String()
		m.ArtAutomatic = &embedded
	}

	return m, picture, nil
}

// fileTypeOf maps the tag container type onto the song codec enum,
// falling back to the filename suffix for containers the tag library
// does not distinguish.
func fileTypeOf(meta tag.Metadata, path string) model.FileType {
	switch meta.FileType() {
	case tag.MP3:
		return model.FileTypeMPEG
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return model.FileTypeMP4
	case tag.FLAC:
		return model.FileTypeFLAC
	case tag.OGG:
		return model.FileTypeOggVorbis
	default:
		return model.FileTypeFromSuffix(filepath.Ext(path))
	}
}

// suspicious flags tags that are likely mis-encoded: any text field
// that is not valid UTF-8 was probably read with the wrong codec.
func suspicious(meta tag.Metadata) bool {
	for _, s := range []string{meta.Title(), meta.Artist(), meta.Album(), meta.AlbumArtist(), meta.Genre()} {
		if !utf8.ValidString(s) {
			return true
		}
	}
	return false
}

func intOrUnset(v int) int {
	if v <= 0 {
		return -1
	}
	return v
}
