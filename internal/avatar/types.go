// Package avatar is the signature synthesis engine: it blends a classified
// technology profile with a deterministic per-variant seed into the final
// avatar spec. The package is pure and stateless — every output is a
// function of its inputs, safe for concurrent use.
package avatar

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

type Species string

const (
	SpeciesBlob   Species = "blob"
	SpeciesSprout Species = "sprout"
	SpeciesPebble Species = "pebble"
	SpeciesPuff   Species = "puff"
)

type Pattern string

const (
	PatternNone     Pattern = "none"
	PatternFreckles Pattern = "freckles"
	PatternStripes  Pattern = "stripes"
	PatternSpeckles Pattern = "speckles"
	PatternRings    Pattern = "rings"
)

type Accessory string

const (
	AccessoryNone       Accessory = "none"
	AccessorySproutLeaf Accessory = "sprout-leaf"
	AccessoryAntenna    Accessory = "antenna"
	AccessoryBow        Accessory = "bow"
	AccessoryMonocle    Accessory = "monocle"
)

type Mood string

const (
	MoodCalm    Mood = "calm"
	MoodPlayful Mood = "playful"
	MoodTechno  Mood = "techno"
	MoodPoetic  Mood = "poetic"
)

// Canonical enumeration orders. All modulo-indexed trait selection cycles
// these slices, so the order is part of the deterministic contract.
var (
	allSpecies     = []Species{SpeciesBlob, SpeciesSprout, SpeciesPebble, SpeciesPuff}
	allPatterns    = []Pattern{PatternNone, PatternFreckles, PatternStripes, PatternSpeckles, PatternRings}
	allAccessories = []Accessory{AccessoryNone, AccessorySproutLeaf, AccessoryAntenna, AccessoryBow, AccessoryMonocle}
	allMoods       = []Mood{MoodCalm, MoodPlayful, MoodTechno, MoodPoetic}
)

// Motion styles.
const (
	StyleBreathingGradient = "breathing-gradient"
	StyleFlowing           = "flowing"
	StyleGridPulse         = "grid-pulse"
	StyleTypeDissolve      = "type-dissolve"
	StyleGlyphOrbit        = "glyph-orbit"
)

// Palette is a background/foreground pair plus at least two accent colors,
// all 6-hex-digit values.
type Palette struct {
	BG      string   `json:"bg"`
	FG      string   `json:"fg"`
	Accents []string `json:"accents"`
}

type Motion struct {
	TempoHz     float64 `json:"tempo_hz"`
	LoopSeconds int     `json:"loop_seconds"`
	Style       string  `json:"style"`
}

type Traits struct {
	Species       Species   `json:"species"`
	Accessory     Accessory `json:"accessory"`
	Pattern       Pattern   `json:"pattern"`
	GlowLevel     int       `json:"glowLevel"`
	AuraParticles int       `json:"auraParticles"`
	SwayAmount    float64   `json:"swayAmount"`
	BreathAmount  float64   `json:"breathAmount"`
}

type Glyph struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
}

// Spec is the final immutable avatar parameter set. For a fixed
// (repository identifier, variant) pair every field is byte-identical
// across calls and process restarts.
type Spec struct {
	Mood            Mood     `json:"mood"`
	PrimaryKeywords []string `json:"primary_keywords"`
	Palette         Palette  `json:"palette"`
	Motion          Motion   `json:"motion"`
	Traits          Traits   `json:"traits"`
	Glyph           Glyph    `json:"glyph"`
	Seed            string   `json:"seed"`
	Variant         int      `json:"variant"`
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var validStyles = map[string]bool{
	StyleBreathingGradient: true,
	StyleFlowing:           true,
	StyleGridPulse:         true,
	StyleTypeDissolve:      true,
	StyleGlyphOrbit:        true,
}

// Validate checks the spec against the output schema. The assembler runs
// this before returning; a violation is the blend-failure signal that
// routes the caller to the heuristic fallback.
func (s Spec) Validate() error {
	if !contains(allMoods, s.Mood) {
		return fmt.Errorf("invalid mood %q", s.Mood)
	}
	if !contains(allSpecies, s.Traits.Species) {
		return fmt.Errorf("invalid species %q", s.Traits.Species)
	}
	if !contains(allPatterns, s.Traits.Pattern) {
		return fmt.Errorf("invalid pattern %q", s.Traits.Pattern)
	}
	if !contains(allAccessories, s.Traits.Accessory) {
		return fmt.Errorf("invalid accessory %q", s.Traits.Accessory)
	}
	if s.Traits.GlowLevel < 0 || s.Traits.GlowLevel > 2 {
		return fmt.Errorf("glow level %d out of range", s.Traits.GlowLevel)
	}
	if s.Traits.AuraParticles < 3 || s.Traits.AuraParticles > 12 {
		return fmt.Errorf("aura particles %d out of range", s.Traits.AuraParticles)
	}
	if s.Motion.TempoHz < 0.1 || s.Motion.TempoHz > 1.0 {
		return fmt.Errorf("tempo %.2f out of range", s.Motion.TempoHz)
	}
	if !validStyles[s.Motion.Style] {
		return fmt.Errorf("invalid motion style %q", s.Motion.Style)
	}
	if !hexColorRe.MatchString(s.Palette.BG) || !hexColorRe.MatchString(s.Palette.FG) {
		return fmt.Errorf("invalid palette color %q/%q", s.Palette.BG, s.Palette.FG)
	}
	if len(s.Palette.Accents) < 2 {
		return fmt.Errorf("palette needs at least 2 accents, got %d", len(s.Palette.Accents))
	}
	for _, c := range s.Palette.Accents {
		if !hexColorRe.MatchString(c) {
			return fmt.Errorf("invalid accent color %q", c)
		}
	}
	if utf8.RuneCountInString(s.Glyph.Text) > 3 {
		return fmt.Errorf("glyph %q longer than 3 characters", s.Glyph.Text)
	}
	if s.Variant < 0 || s.Variant > maxVariant {
		return fmt.Errorf("variant %d out of range", s.Variant)
	}
	if len(s.Seed) != 32 {
		return fmt.Errorf("seed %q is not a 32-char digest", s.Seed)
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
