package avatar

import (
	"strings"

	"github.com/kalambet/kura/internal/classify"
)

// Blend constants. Every modulus and divisor in seed-to-trait mapping is
// named here so the mapping stays auditable and testable in isolation.
const (
	// Stage 1: seed decides between framework-preferred and seed-indexed
	// traits. seedInt % frameworkKeepMod < frameworkKeepBelow covers 70%
	// of the seed space.
	frameworkKeepMod   = 10
	frameworkKeepBelow = 7

	// Seed divisors for the seed-indexed alternative. Dividing before the
	// modulo decorrelates the individual trait picks.
	patternSeedDiv   = 10
	moodSeedDiv      = 100
	accessorySeedDiv = 1000

	// Stage 2: variant decides between the stage-1 candidate and a
	// variant-indexed alternative.
	variantKeepMod   = 10
	variantKeepBelow = 6

	// A framework-flavored accessory survives stage 2 only in this slice
	// of variant space.
	accessoryKeepMod   = 5
	accessoryKeepBelow = 2

	// Framework brand colors are used for variant % 3 in {0, 1}; the
	// remaining third cycles the builtin palette table.
	brandPaletteMod   = 3
	brandPaletteBelow = 2
)

// Numeric trait formulas over (seedInt + variant).
const (
	glowMod = 3

	auraBase = 3
	auraMod  = 10

	swayBase = 0.08
	swayMod  = 25

	breathBase = 0.05
	breathMod  = 20

	tempoBase = 0.25
	tempoMod  = 40

	loopSeconds = 3
	glyphWeight = 600
	glyphLen    = 3
)

// preference is a framework's preferred visual identity: the traits it
// contributes to stage 1 of the blend and its brand color pair.
type preference struct {
	species   Species
	pattern   Pattern
	mood      Mood
	accessory Accessory
	colors    *[2]string
	note      string
}

var frameworkPrefs = map[classify.Framework]preference{
	classify.FrameworkReact: {
		species: SpeciesPebble, pattern: PatternFreckles, mood: MoodTechno,
		colors: &[2]string{"#61DAFB", "#20232A"},
		note:   "component-based architecture, modular geometric forms",
	},
	classify.FrameworkVue: {
		species: SpeciesPuff, pattern: PatternNone, mood: MoodCalm,
		colors: &[2]string{"#42B883", "#35495E"},
		note:   "reactive data binding, flowing organic shape",
	},
	classify.FrameworkAngular: {
		species: SpeciesPebble, pattern: PatternStripes, mood: MoodTechno,
		colors: &[2]string{"#DD0031", "#C3002F"},
		note:   "structured framework, layered stripes",
	},
	classify.FrameworkSvelte: {
		species: SpeciesSprout, pattern: PatternNone, mood: MoodPlayful,
		colors: &[2]string{"#FF3E00", "#F96743"},
		note:   "compile-time magic, sprouting form",
	},
	classify.FrameworkDjango: {
		species: SpeciesPebble, pattern: PatternStripes, mood: MoodCalm,
		colors: &[2]string{"#092E20", "#0C4B33"},
		note:   "batteries-included MVC, solid layered structure",
	},
	classify.FrameworkFlask: {
		species: SpeciesSprout, pattern: PatternNone, mood: MoodCalm,
		colors: &[2]string{"#000000", "#FFFFFF"},
		note:   "micro-framework, grows with extensions",
	},
	classify.FrameworkML: {
		species: SpeciesBlob, pattern: PatternRings, mood: MoodTechno,
		accessory: AccessoryAntenna,
		colors:    &[2]string{"#FF6F00", "#FFA726"},
		note:      "neural network layers, antenna for continuous learning",
	},
}

// nameFrameworks maps repository-name substrings to frameworks, used when
// manifest classification found nothing. Checked in this order.
var nameFrameworks = []struct {
	substr    string
	framework classify.Framework
}{
	{"react", classify.FrameworkReact},
	{"vue", classify.FrameworkVue},
	{"angular", classify.FrameworkAngular},
	{"django", classify.FrameworkDjango},
	{"flask", classify.FrameworkFlask},
	{"svelte", classify.FrameworkSvelte},
}

// blendResult is the mutable scratch state of a blend run. It is discarded
// once the final Spec has been assembled.
type blendResult struct {
	traits  Traits
	mood    Mood
	palette Palette
	style   string
}

// blend runs the two-stage deterministic blend and the override chain.
//
// Stage 1 forks on the seed: 70% of seed space adopts the framework's
// preferred species/pattern/mood, the rest indexes the enumerations with
// seed arithmetic. Stage 2 forks on the variant: 60% of variant space keeps
// the stage-1 candidate, the rest indexes by variant. Overrides then apply
// in a fixed order and may replace pattern/accessory/species/palette but
// never mood.
func blend(profile classify.Profile, name string, variant int, seed Seed) blendResult {
	seedInt := int(seed.Int)

	framework := profile.Framework
	if framework == classify.FrameworkUnknown {
		framework = frameworkFromName(name)
	}
	pref, hasPref := frameworkPrefs[framework]
	if !hasPref {
		pref = preference{species: SpeciesBlob, pattern: PatternNone, mood: MoodCalm}
	}

	// Stage 1: framework preference vs. seed variation.
	species := pref.species
	pattern := pref.pattern
	mood := pref.mood
	if seedInt%frameworkKeepMod >= frameworkKeepBelow {
		species = allSpecies[seedInt%len(allSpecies)]
		pattern = allPatterns[(seedInt/patternSeedDiv)%len(allPatterns)]
		mood = allMoods[(seedInt/moodSeedDiv)%len(allMoods)]
	}
	accessory := allAccessories[(seedInt/accessorySeedDiv)%len(allAccessories)]
	if pref.accessory != "" && pref.accessory != AccessoryNone {
		accessory = pref.accessory
	}

	// Stage 2: stage-1 candidate vs. variant-indexed alternative.
	if variant%variantKeepMod >= variantKeepBelow {
		species = allSpecies[variant%len(allSpecies)]
		pattern = allPatterns[variant%len(allPatterns)]
	}
	if !(accessory != AccessoryNone && variant%accessoryKeepMod < accessoryKeepBelow) {
		accessory = allAccessories[variant%len(allAccessories)]
	}

	colors := pref.colors
	style := StyleBreathingGradient

	// Override chain, fixed order. Mood is never touched past this point.
	if profile.Paradigm == classify.ParadigmReactive ||
		profile.Paradigm == classify.ParadigmReactiveStreams ||
		profile.AsyncPatterns {
		if pattern == PatternNone {
			pattern = PatternRings
		}
		style = StyleFlowing
	}
	if profile.Paradigm == classify.ParadigmConcurrent {
		accessory = AccessoryAntenna
		pattern = PatternSpeckles
	}
	if profile.Language == classify.LangRust {
		species = SpeciesPebble
		colors = &rustColors
	}
	if profile.Language == classify.LangGo {
		species = SpeciesSprout
		colors = &goColors
		accessory = AccessoryAntenna
	}

	glow, particles := scaleGlow(profile.Scale)
	if profile.Architecture == classify.ArchMicroservices {
		pattern = PatternSpeckles
	}
	if profile.Architecture == classify.ArchGraphics {
		glow = 2
		pattern = PatternRings
	}

	var palette Palette
	if colors != nil && variant%brandPaletteMod < brandPaletteBelow {
		palette = framedPalette(*colors)
	} else {
		palette = builtinPalettes[variant%len(builtinPalettes)]
	}

	return blendResult{
		traits: Traits{
			Species:       species,
			Accessory:     accessory,
			Pattern:       pattern,
			GlowLevel:     glow,
			AuraParticles: particles,
			SwayAmount:    swayAmount(seedInt, variant),
			BreathAmount:  breathAmount(seedInt, variant),
		},
		mood:    mood,
		palette: palette,
		style:   style,
	}
}

func frameworkFromName(name string) classify.Framework {
	lower := strings.ToLower(name)
	for _, nf := range nameFrameworks {
		if strings.Contains(lower, nf.substr) {
			return nf.framework
		}
	}
	return classify.FrameworkUnknown
}

// scaleGlow maps dependency scale to glow level and aura particle count.
func scaleGlow(scale classify.Scale) (glow, particles int) {
	switch scale {
	case classify.ScaleEnterprise:
		return 2, 10
	case classify.ScaleMedium:
		return 1, 6
	default:
		return 0, 4
	}
}

func swayAmount(seedInt, variant int) float64 {
	return swayBase + float64((seedInt+variant)%swayMod)/100
}

func breathAmount(seedInt, variant int) float64 {
	return breathBase + float64((seedInt+variant)%breathMod)/100
}

func tempoHz(seedInt, variant int) float64 {
	return tempoBase + float64((seedInt+variant)%tempoMod)/100
}

// glyphText takes the first 3 characters of the repository name, uppercased.
// Shorter names stay shorter; callers that need a fixed width pad themselves.
func glyphText(name string) string {
	runes := []rune(strings.ToUpper(name))
	if len(runes) > glyphLen {
		runes = runes[:glyphLen]
	}
	return string(runes)
}
