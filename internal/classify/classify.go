// Package classify turns raw repository signals (dependency manifests and
// README prose) into a structured technology profile. Classification is a
// best-effort heuristic: malformed input degrades fields to their unknown
// defaults instead of failing.
package classify

import (
	"encoding/json"
	"strings"
)

type Language string

const (
	LangUnknown    Language = "unknown"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangGo         Language = "go"
)

type Framework string

const (
	FrameworkUnknown Framework = "unknown"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkSvelte  Framework = "svelte"
	FrameworkMeta    Framework = "meta-framework"
	FrameworkDjango  Framework = "django"
	FrameworkFlask   Framework = "flask"
	FrameworkFastAPI Framework = "fastapi"
	FrameworkML      Framework = "ml-framework"
	FrameworkDataSci Framework = "data-science"
)

type Scale string

const (
	ScaleMinimal    Scale = "minimal"
	ScaleMedium     Scale = "medium"
	ScaleEnterprise Scale = "enterprise"
)

// Architecture tags. Derived from manifest contents first, then from the
// README keyword scan (which never overwrites a manifest-derived value).
const (
	ArchUnknown       = "unknown"
	ArchServer        = "server"
	ArchDesktop       = "desktop"
	ArchGraphics      = "graphics"
	ArchMicroservices = "microservices"
	ArchMonorepo      = "monorepo"
	ArchServerless    = "serverless"
	ArchWasm          = "wasm"
)

// Paradigm tags.
const (
	ParadigmUnknown         = "unknown"
	ParadigmComponentBased  = "component-based"
	ParadigmReactive        = "reactive"
	ParadigmStructured      = "structured"
	ParadigmCompiled        = "compiled"
	ParadigmFullStack       = "full-stack"
	ParadigmMVC             = "mvc"
	ParadigmMicro           = "micro"
	ParadigmAsync           = "async"
	ParadigmNeural          = "neural"
	ParadigmAnalytical      = "analytical"
	ParadigmSystems         = "systems"
	ParadigmConcurrent      = "concurrent"
	ParadigmReactiveStreams = "reactive-streams"
)

// Manifest filenames the classifier recognizes, in priority order.
const (
	ManifestPackageJSON  = "package.json"
	ManifestRequirements = "requirements.txt"
	ManifestCargoToml    = "Cargo.toml"
	ManifestGoMod        = "go.mod"
)

// Scale thresholds over the dependency count of the classified manifest.
const (
	scaleEnterpriseDeps = 100
	scaleMediumDeps     = 30
)

// Profile is the classified technology profile of a repository. One is
// derived per generation request and treated as immutable afterwards.
type Profile struct {
	Language      Language
	Framework     Framework
	Paradigm      string
	AsyncPatterns bool
	Architecture  string
	Scale         Scale
	Philosophy    map[string]string
}

// Unknown returns a Profile with every field at its default.
func Unknown() Profile {
	return Profile{
		Language:     LangUnknown,
		Framework:    FrameworkUnknown,
		Paradigm:     ParadigmUnknown,
		Architecture: ArchUnknown,
		Scale:        ScaleMinimal,
		Philosophy:   map[string]string{},
	}
}

// note records a philosophy entry. Entries accumulate; a key set by an
// earlier (higher-priority) rule is never overwritten.
func (p *Profile) note(key, value string) {
	if _, ok := p.Philosophy[key]; !ok {
		p.Philosophy[key] = value
	}
}

// manifestRule pairs a manifest filename with its ecosystem classifier.
// Rules are evaluated in order and the first present, non-empty manifest
// wins — even when its content turns out to be malformed.
type manifestRule struct {
	filename string
	classify func(p *Profile, content string)
}

var manifestRules = []manifestRule{
	{ManifestPackageJSON, classifyPackageJSON},
	{ManifestRequirements, classifyRequirements},
	{ManifestCargoToml, classifyCargo},
	{ManifestGoMod, classifyGoMod},
}

// Classify derives a Profile from the given manifests (filename → content;
// absent files simply missing from the map) and the full README text.
// It never fails: unparseable input leaves the dependent fields at unknown.
func Classify(manifests map[string]string, readme string) Profile {
	p := Unknown()

	for _, rule := range manifestRules {
		content, ok := manifests[rule.filename]
		if !ok || content == "" {
			continue
		}
		rule.classify(&p, content)
		break
	}

	scanReadme(&p, readme)
	return p
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func classifyPackageJSON(p *Profile, content string) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		// Malformed manifest: degrade, don't propagate.
		return
	}

	deps := make(map[string]bool, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		deps[name] = true
	}
	for name := range pkg.DevDependencies {
		deps[name] = true
	}

	p.Language = LangJavaScript

	switch {
	case deps["react"] || deps["react-dom"]:
		p.Framework = FrameworkReact
		p.Paradigm = ParadigmComponentBased
		p.note("essence", "discrete modular components")
	case deps["vue"] || deps["@vue/cli"]:
		p.Framework = FrameworkVue
		p.Paradigm = ParadigmReactive
		p.note("essence", "reactive data flow")
	case deps["@angular/core"]:
		p.Framework = FrameworkAngular
		p.Paradigm = ParadigmStructured
		p.note("essence", "structured dependency injection")
	case deps["svelte"]:
		p.Framework = FrameworkSvelte
		p.Paradigm = ParadigmCompiled
		p.note("essence", "compile-time magic")
	case deps["next"] || deps["gatsby"]:
		p.Framework = FrameworkMeta
		p.Paradigm = ParadigmFullStack
	}

	if deps["rxjs"] || deps["redux-saga"] || deps["redux-observable"] {
		p.AsyncPatterns = true
		p.Paradigm = ParadigmReactiveStreams
	}

	switch {
	case deps["express"] || deps["koa"] || deps["fastify"]:
		p.Architecture = ArchServer
	case deps["electron"]:
		p.Architecture = ArchDesktop
	case deps["three"] || deps["pixi.js"]:
		p.Architecture = ArchGraphics
	}

	p.Scale = scaleFor(len(deps))
}

func classifyRequirements(p *Profile, content string) {
	p.Language = LangPython
	reqs := strings.ToLower(content)

	switch {
	case strings.Contains(reqs, "django"):
		p.Framework = FrameworkDjango
		p.Paradigm = ParadigmMVC
		p.note("essence", "batteries-included convention")
	case strings.Contains(reqs, "flask"):
		p.Framework = FrameworkFlask
		p.Paradigm = ParadigmMicro
		p.note("essence", "minimalist flexibility")
	case strings.Contains(reqs, "fastapi"):
		p.Framework = FrameworkFastAPI
		p.Paradigm = ParadigmAsync
		p.note("essence", "modern async performance")
	case strings.Contains(reqs, "tensorflow"), strings.Contains(reqs, "torch"):
		p.Framework = FrameworkML
		p.Paradigm = ParadigmNeural
		p.note("essence", "neural network learning")
	case strings.Contains(reqs, "numpy"), strings.Contains(reqs, "pandas"):
		p.Framework = FrameworkDataSci
		p.Paradigm = ParadigmAnalytical
	}

	if strings.Contains(reqs, "asyncio") || strings.Contains(reqs, "aiohttp") {
		p.AsyncPatterns = true
	}

	p.Scale = scaleFor(countRequirementLines(content))
}

func classifyCargo(p *Profile, content string) {
	p.Language = LangRust
	p.Paradigm = ParadigmSystems
	p.note("essence", "memory-safe performance")

	if strings.Contains(content, "tokio") || strings.Contains(content, "async-std") {
		p.AsyncPatterns = true
	}
	if strings.Contains(content, "wasm") {
		p.Architecture = ArchWasm
	}
}

func classifyGoMod(p *Profile, _ string) {
	p.Language = LangGo
	p.Paradigm = ParadigmConcurrent
	p.note("essence", "goroutine concurrency")
	// Goroutines make every Go repo concurrent by default.
	p.AsyncPatterns = true
}

// scanReadme looks for architecture and data-flow keywords. It runs after
// manifest classification and only fills architecture when still unknown.
func scanReadme(p *Profile, readme string) {
	lower := strings.ToLower(readme)

	if p.Architecture == ArchUnknown {
		switch {
		case strings.Contains(lower, "microservice"):
			p.Architecture = ArchMicroservices
			p.note("distributed", "true")
		case strings.Contains(lower, "monorepo"):
			p.Architecture = ArchMonorepo
		case strings.Contains(lower, "serverless"):
			p.Architecture = ArchServerless
		}
	} else if strings.Contains(lower, "microservice") {
		p.note("distributed", "true")
	}

	switch {
	case strings.Contains(lower, "unidirectional"),
		strings.Contains(lower, "one-way"),
		strings.Contains(lower, "flux"):
		p.note("data_flow", "unidirectional")
	case strings.Contains(lower, "two-way binding"),
		strings.Contains(lower, "bidirectional"):
		p.note("data_flow", "bidirectional")
	}
}

func scaleFor(depCount int) Scale {
	switch {
	case depCount > scaleEnterpriseDeps:
		return ScaleEnterprise
	case depCount > scaleMediumDeps:
		return ScaleMedium
	default:
		return ScaleMinimal
	}
}

func countRequirementLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n++
	}
	return n
}
