package avatar

// builtinPalettes is the fixed ordered palette table used whenever a
// framework does not dictate its own colors. Indexed by variant % 7.
var builtinPalettes = []Palette{
	{BG: "#000000", FG: "#00FFFF", Accents: []string{"#0099FF", "#00DDFF"}},
	{BG: "#0A0A0F", FG: "#E0C4FF", Accents: []string{"#9B72AA", "#C9A0DC"}},
	{BG: "#050510", FG: "#B8E0D2", Accents: []string{"#6A8EAE", "#A8D8EA"}},
	{BG: "#0D0D15", FG: "#FFE5EC", Accents: []string{"#FFA8B5", "#D4AFCD"}},
	{BG: "#0A0813", FG: "#FFE66D", Accents: []string{"#FFCC44", "#FFE88A"}},
	{BG: "#0B0820", FG: "#F0E6FF", Accents: []string{"#B08BBB", "#E0BBE4"}},
	{BG: "#05100A", FG: "#AAFFCC", Accents: []string{"#66DDAA", "#88FFCC"}},
}

// fallbackPalettes is the 4-entry subset the heuristic path cycles through.
var fallbackPalettes = builtinPalettes[:4]

// Language-themed color pairs applied by the override chain.
var (
	rustColors = [2]string{"#CE422B", "#5C2D30"}
	goColors   = [2]string{"#00ADD8", "#5DC9E2"}
)

const paletteBG = "#000000"

// framedPalette builds a palette from a framework (or language) color pair:
// near-black background, first color as foreground, both colors as accents.
func framedPalette(colors [2]string) Palette {
	return Palette{
		BG:      paletteBG,
		FG:      colors[0],
		Accents: []string{colors[0], colors[1]},
	}
}
