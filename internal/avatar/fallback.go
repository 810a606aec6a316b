package avatar

import "strings"

// Fallback mood keywords, checked against the lowercased README in order.
var moodKeywords = []struct {
	mood  Mood
	words []string
}{
	{MoodTechno, []string{"finance", "market", "trading"}},
	{MoodPlayful, []string{"game", "animation", "play"}},
	{MoodPoetic, []string{"art", "poem", "story", "design"}},
}

const fallbackKeyword = "heuristic"
const fallbackNameLen = 5

// SynthesizeFallback produces a schema-valid spec from the README text and
// repository name alone: keyword-derived mood, traits cycled purely by
// variant, palette from the 4-entry subset. No manifest parsing happens on
// this path and it never fails, even on empty input.
func SynthesizeFallback(readme, name string, variant int) Spec {
	variant = clampVariant(variant)
	seed := NewSeed(name, variant)
	seedInt := int(seed.Int)

	mood := MoodCalm
	lower := strings.ToLower(readme)
	for _, mk := range moodKeywords {
		for _, w := range mk.words {
			if strings.Contains(lower, w) {
				mood = mk.mood
				break
			}
		}
		if mood != MoodCalm {
			break
		}
	}

	nameFragment := name
	if runes := []rune(nameFragment); len(runes) > fallbackNameLen {
		nameFragment = string(runes[:fallbackNameLen])
	}

	return Spec{
		Mood:            mood,
		PrimaryKeywords: []string{fallbackKeyword, nameFragment},
		Palette:         fallbackPalettes[variant%len(fallbackPalettes)],
		Motion: Motion{
			TempoHz:     tempoHz(seedInt, variant),
			LoopSeconds: loopSeconds,
			Style:       StyleBreathingGradient,
		},
		Traits: Traits{
			Species:       allSpecies[variant%len(allSpecies)],
			Accessory:     allAccessories[variant%len(allAccessories)],
			Pattern:       allPatterns[variant%len(allPatterns)],
			GlowLevel:     (seedInt + variant) % glowMod,
			AuraParticles: auraBase + variant%auraMod,
			SwayAmount:    swayAmount(seedInt, variant),
			BreathAmount:  breathAmount(seedInt, variant),
		},
		Glyph:   Glyph{Text: glyphText(name), Weight: glyphWeight},
		Seed:    seed.Hex,
		Variant: variant,
	}
}
