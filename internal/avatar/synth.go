package avatar

import (
	"errors"
	"fmt"

	"github.com/kalambet/kura/internal/classify"
)

// maxVariant is the inclusive upper bound of the variant range. Out-of-range
// input is clamped defensively rather than rejected.
const maxVariant = 999

// ErrBlend signals that profile-driven synthesis produced an out-of-schema
// spec. It is the only error class the engine surfaces; callers answer it
// by invoking SynthesizeFallback, which cannot fail.
var ErrBlend = errors.New("blend produced invalid avatar spec")

// Synthesize is the engine's entry point for the profile-driven path. It
// blends the technology profile with the seed derived from owner/name and
// variant, and assembles the final immutable spec.
//
// The readme text is accepted for interface symmetry with the fallback
// path; the profile already carries everything extracted from it.
func Synthesize(profile classify.Profile, _ string, owner, name string, variant int) (Spec, error) {
	variant = clampVariant(variant)
	seed := NewSeed(owner+"/"+name, variant)

	res := blend(profile, name, variant, seed)

	spec := Spec{
		Mood:            res.mood,
		PrimaryKeywords: []string{string(profile.Framework), string(profile.Language)},
		Palette:         res.palette,
		Motion: Motion{
			TempoHz:     tempoHz(int(seed.Int), variant),
			LoopSeconds: loopSeconds,
			Style:       res.style,
		},
		Traits:  res.traits,
		Glyph:   Glyph{Text: glyphText(name), Weight: glyphWeight},
		Seed:    seed.Hex,
		Variant: variant,
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrBlend, err)
	}
	return spec, nil
}

func clampVariant(variant int) int {
	if variant < 0 {
		return 0
	}
	if variant > maxVariant {
		return maxVariant
	}
	return variant
}
