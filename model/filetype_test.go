package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeFromSuffix(t *testing.T) {
	assert.Equal(t, FileTypeMPEG, FileTypeFromSuffix(".MP3"))
	assert.Equal(t, FileTypeMPEG, FileTypeFromSuffix("mp3"))
	assert.Equal(t, FileTypeFLAC, FileTypeFromSuffix(".flac"))
	assert.Equal(t, FileTypeOggVorbis, FileTypeFromSuffix(".ogg"))
	assert.Equal(t, FileTypeMP4, FileTypeFromSuffix(".m4a"))
	assert.Equal(t, FileTypeUnknown, FileTypeFromSuffix(".txt"))
	assert.Equal(t, FileTypeUnknown, FileTypeFromSuffix(""))
}

func TestFileTypeFromValue(t *testing.T) {
	assert.Equal(t, FileTypeOggOpus, FileTypeFromValue(9))
	assert.Equal(t, FileTypeCDDA, FileTypeFromValue(90))
	assert.Equal(t, FileTypeUnknown, FileTypeFromValue(42))
	assert.Equal(t, FileTypeUnknown, FileTypeFromValue(-3))
}

func TestFileTypeLossless(t *testing.T) {
	assert.True(t, FileTypeFLAC.IsLossless())
	assert.True(t, FileTypeWAV.IsLossless())
	assert.False(t, FileTypeMPEG.IsLossless())
	assert.Equal(t, "MP3", FileTypeMPEG.Text())
	assert.Equal(t, "Unknown", FileType(77).Text())
}
