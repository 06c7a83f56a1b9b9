package model

import "strings"

// FileType identifies the codec of a song's underlying file. The
// numeric values are persisted in the songs table, so they must not be
// reordered.
type FileType int

const (
	FileTypeUnknown   FileType = 0
	FileTypeASF       FileType = 1
	FileTypeFLAC      FileType = 2
	FileTypeMP4       FileType = 3
	FileTypeMPC       FileType = 4
	FileTypeMPEG      FileType = 5
	FileTypeOggFLAC   FileType = 6
	FileTypeOggSpeex  FileType = 7
	FileTypeOggVorbis FileType = 8
	FileTypeOggOpus   FileType = 9
	FileTypeAIFF      FileType = 10
	FileTypeWAV       FileType = 11
	FileTypeTrueAudio FileType = 12
	FileTypeCDDA      FileType = 90
)

// Text returns the human readable name of the codec.
func (t FileType) Text() string {
	switch t {
	case FileTypeASF:
		return "Windows Media audio"
	case FileTypeFLAC:
		return "Flac"
	case FileTypeMP4:
		return "MP4 AAC"
	case FileTypeMPC:
		return "MPC"
	case FileTypeMPEG:
		return "MP3"
	case FileTypeOggFLAC:
		return "Ogg Flac"
	case FileTypeOggSpeex:
		return "Ogg Speex"
	case FileTypeOggVorbis:
		return "Ogg Vorbis"
	case FileTypeOggOpus:
		return "Ogg Opus"
	case FileTypeAIFF:
		return "AIFF"
	case FileTypeWAV:
		return "Wav"
	case FileTypeTrueAudio:
		return "TrueAudio"
	case FileTypeCDDA:
		return "CDDA"
	default:
		return "Unknown"
	}
}

// IsLossless reports whether the codec stores audio without loss.
func (t FileType) IsLossless() bool {
	switch t {
	case FileTypeAIFF, FileTypeFLAC, FileTypeOggFLAC, FileTypeWAV:
		return true
	default:
		return false
	}
}

// FileTypeFromValue converts a stored integer back into a FileType.
// Values outside the known set map to FileTypeUnknown rather than
// failing.
func FileTypeFromValue(v int) FileType {
	switch FileType(v) {
	case FileTypeASF, FileTypeFLAC, FileTypeMP4, FileTypeMPC, FileTypeMPEG,
		FileTypeOggFLAC, FileTypeOggSpeex, FileTypeOggVorbis, FileTypeOggOpus,
		FileTypeAIFF, FileTypeWAV, FileTypeTrueAudio, FileTypeCDDA:
		return FileType(v)
	default:
		return FileTypeUnknown
	}
}

// FileTypeFromSuffix guesses the codec from a filename extension. It is
// used when a file cannot be opened by the tag reader and we only have
// its name to go on.
func FileTypeFromSuffix(suffix string) FileType {
	switch strings.ToLower(strings.TrimPrefix(suffix, ".")) {
	case "wma", "asf":
		return FileTypeASF
	case "flac":
		return FileTypeFLAC
	case "m4a", "m4b", "mp4", "aac":
		return FileTypeMP4
	case "mpc":
		return FileTypeMPC
	case "mp3", "mp2":
		return FileTypeMPEG
	case "oga":
		return FileTypeOggFLAC
	case "spx":
		return FileTypeOggSpeex
	case "ogg":
		return FileTypeOggVorbis
	case "opus":
		return FileTypeOggOpus
	case "aif", "aiff":
		return FileTypeAIFF
	case "wav":
		return FileTypeWAV
	case "tta":
		return FileTypeTrueAudio
	default:
		return FileTypeUnknown
	}
}
