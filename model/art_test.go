package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverArtEncoding(t *testing.T) {
	cases := []struct {
		art  CoverArt
		text string
	}{
		{CoverArt{}, ""},
		{UnsetCoverArt(), "(unset)"},
		{EmbeddedCoverArt(), "(embedded)"},
		{CoverArtFromPath("/covers/a.jpg"), "/covers/a.jpg"},
	}
	for _, c := range cases {
		assert.Equal(t, c.text, c.art.String())
		assert.Equal(t, c.art, ParseCoverArt(c.text))
	}
}

func TestCoverArtPredicates(t *testing.T) {
	assert.True(t, CoverArt{}.IsEmpty())
	assert.False(t, CoverArt{}.IsUnset())

	assert.True(t, UnsetCoverArt().IsUnset())
	assert.False(t, UnsetCoverArt().IsEmpty())

	assert.True(t, EmbeddedCoverArt().IsEmbedded())
	assert.Equal(t, "", EmbeddedCoverArt().Path())

	art := CoverArtFromPath("/covers/a.jpg")
	assert.Equal(t, "/covers/a.jpg", art.Path())
	assert.False(t, art.IsEmpty())
}

func TestCoverArtFromEmptyPath(t *testing.T) {
	assert.True(t, CoverArtFromPath("").IsEmpty())
}
