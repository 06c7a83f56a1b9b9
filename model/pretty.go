package model

import (
	"fmt"
	"strconv"
)

// PrettyTitle falls back from the title to the base filename to the
// locator, so there is always something to display.
func (s Song) PrettyTitle() string {
	title := s.data().title
	if title == "" {
		title = s.data().basefilename
	}
	if title == "" {
		title = s.URLString()
	}
	return title
}

// PrettyTitleWithArtist prefixes the artist when one is known.
func (s Song) PrettyTitleWithArtist() string {
	title := s.PrettyTitle()
	if s.data().artist != "" {
		title = s.data().artist + " - " + title
	}
	return title
}

// TitleWithCompilationArtist prefixes the per-track artist on
// compilations, except for placeholder artists like "Various Artists".
func (s Song) TitleWithCompilationArtist() string {
	title := s.data().title
	if title == "" {
		title = s.data().basefilename
	}
	if s.IsCompilation() && s.data().artist != "" && !containsVarious(s.data().artist) {
		title = s.data().artist + " - " + title
	}
	return title
}

// PrettyLength formats the duration as h:mm:ss, or "" when unknown.
func (s Song) PrettyLength() string {
	length := s.LengthNanosec()
	if length == -1 {
		return ""
	}
	secs := length / NsecPerSec
	h, m, sec := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// PrettyYear returns the year as text, or "" when unknown.
func (s Song) PrettyYear() string {
	if s.data().year == -1 {
		return ""
	}
	return strconv.Itoa(s.data().year)
}

// SampleRateBitDepthText describes the audio signal, leaving bit depth
// off when it is unknown.
func (s Song) SampleRateBitDepthText() string {
	if s.data().bitdepth == -1 {
		return fmt.Sprintf("%d hz", s.data().samplerate)
	}
	return fmt.Sprintf("%d hz / %d bit", s.data().samplerate, s.data().bitdepth)
}
