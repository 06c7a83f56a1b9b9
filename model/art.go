package model

// Cover art sentinel strings as they appear in the songs table and in
// wire payloads. They are kept only at the marshalling boundary; in
// memory cover art is the tagged CoverArt value below.
const (
	manuallyUnsetCover = "(unset)"
	embeddedCover      = "(embedded)"
)

type coverArtKind int

const (
	coverArtNone coverArtKind = iota
	coverArtUnset
	coverArtEmbedded
	coverArtPath
)

// CoverArt describes where a song's album art comes from. The zero
// value means no art is known. Unset means the user explicitly removed
// the cover, which is distinct from simply not having one. Embedded
// means the art lives inside the audio file itself.
type CoverArt struct {
	kind coverArtKind
	path string
}

// CoverArtFromPath returns art backed by an image file on disk. An
// empty path yields the zero value.
func CoverArtFromPath(path string) CoverArt {
	if path == "" {
		return CoverArt{}
	}
	return CoverArt{kind: coverArtPath, path: path}
}

// UnsetCoverArt returns the user-cleared cover marker.
func UnsetCoverArt() CoverArt { return CoverArt{kind: coverArtUnset} }

// EmbeddedCoverArt returns the in-file cover marker.
func EmbeddedCoverArt() CoverArt { return CoverArt{kind: coverArtEmbedded} }

// ParseCoverArt decodes the stored representation, including the two
// legacy sentinel strings.
func ParseCoverArt(s string) CoverArt {
	switch s {
	case "":
		return CoverArt{}
	case manuallyUnsetCover:
		return UnsetCoverArt()
	case embeddedCover:
		return EmbeddedCoverArt()
	default:
		return CoverArt{kind: coverArtPath, path: s}
	}
}

// String encodes the art for storage. The inverse of ParseCoverArt.
func (c CoverArt) String() string {
	switch c.kind {
	case coverArtUnset:
		return manuallyUnsetCover
	case coverArtEmbedded:
		return embeddedCover
	case coverArtPath:
		return c.path
	default:
		return ""
	}
}

// IsEmpty reports whether no art state is recorded at all.
func (c CoverArt) IsEmpty() bool { return c.kind == coverArtNone }

// IsUnset reports whether the user explicitly cleared the cover.
func (c CoverArt) IsUnset() bool { return c.kind == coverArtUnset }

// IsEmbedded reports whether the art is embedded in the audio file.
func (c CoverArt) IsEmbedded() bool { return c.kind == coverArtEmbedded }

// Path returns the image file path, or "" when the art is not a file.
func (c CoverArt) Path() string {
	if c.kind != coverArtPath {
		return ""
	}
	return c.path
}
