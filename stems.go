package stemcompare

import (
	"fmt"
	"strings"
)

// Stem identifies one isolated component of a mix.
type Stem int

// Stems in their fixed processing and reporting order.
const (
	StemBass Stem = iota
	StemDrums
	StemVocals
	StemOther
)

// StemCount is the number of stems in a stem set.
const StemCount = 4

var stemLabels = [StemCount]string{"Bass", "Drums", "Vocals", "Other"}

// Stems returns every stem in processing order.
func Stems() [StemCount]Stem {
	return [StemCount]Stem{StemBass, StemDrums, StemVocals, StemOther}
}

// Label returns the display name, e.g. "Vocals".
func (s Stem) Label() string {
	if s < 0 || int(s) >= StemCount {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemLabels[s]
}

// String returns the lower-case stem name, e.g. "vocals".
func (s Stem) String() string {
	return strings.ToLower(s.Label())
}

// FileName returns the required file name of the stem, e.g. "vocals.mp3".
func (s Stem) FileName() string {
	return s.String() + stemExtension
}

// stemForFile returns the stem whose file name is exactly name.
func stemForFile(name string) (Stem, bool) {
	for _, s := range Stems() {
		if s.FileName() == name {
			return s, true
		}
	}
	return 0, false
}
