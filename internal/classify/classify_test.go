package classify

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestClassify_ReactPackageJSON(t *testing.T) {
	manifests := map[string]string{
		ManifestPackageJSON: `{"dependencies": {"react": "^18.2.0", "react-dom": "^18.2.0"}}`,
	}

	p := Classify(manifests, "")

	if p.Language != LangJavaScript {
		t.Errorf("language = %q, want javascript", p.Language)
	}
	if p.Framework != FrameworkReact {
		t.Errorf("framework = %q, want react", p.Framework)
	}
	if p.Paradigm != ParadigmComponentBased {
		t.Errorf("paradigm = %q, want component-based", p.Paradigm)
	}
	if p.Philosophy["essence"] != "discrete modular components" {
		t.Errorf("essence = %q", p.Philosophy["essence"])
	}
}

func TestClassify_JavaScriptFrameworks(t *testing.T) {
	tests := []struct {
		dep       string
		framework Framework
		paradigm  string
	}{
		{"vue", FrameworkVue, ParadigmReactive},
		{"@angular/core", FrameworkAngular, ParadigmStructured},
		{"svelte", FrameworkSvelte, ParadigmCompiled},
		{"next", FrameworkMeta, ParadigmFullStack},
		{"gatsby", FrameworkMeta, ParadigmFullStack},
	}

	for _, tt := range tests {
		t.Run(tt.dep, func(t *testing.T) {
			manifests := map[string]string{
				ManifestPackageJSON: fmt.Sprintf(`{"dependencies": {"%s": "1.0.0"}}`, tt.dep),
			}
			p := Classify(manifests, "")
			if p.Framework != tt.framework {
				t.Errorf("framework = %q, want %q", p.Framework, tt.framework)
			}
			if p.Paradigm != tt.paradigm {
				t.Errorf("paradigm = %q, want %q", p.Paradigm, tt.paradigm)
			}
		})
	}
}

func TestClassify_ReactiveStreams(t *testing.T) {
	manifests := map[string]string{
		ManifestPackageJSON: `{"dependencies": {"react": "18.0.0", "rxjs": "7.0.0"}}`,
	}

	p := Classify(manifests, "")

	if !p.AsyncPatterns {
		t.Error("asyncPatterns = false, want true with rxjs present")
	}
	if p.Paradigm != ParadigmReactiveStreams {
		t.Errorf("paradigm = %q, want reactive-streams", p.Paradigm)
	}
}

func TestClassify_JavaScriptArchitecture(t *testing.T) {
	tests := []struct {
		dep  string
		arch string
	}{
		{"express", ArchServer},
		{"electron", ArchDesktop},
		{"three", ArchGraphics},
	}

	for _, tt := range tests {
		t.Run(tt.dep, func(t *testing.T) {
			manifests := map[string]string{
				ManifestPackageJSON: fmt.Sprintf(`{"dependencies": {"%s": "1.0.0"}}`, tt.dep),
			}
			p := Classify(manifests, "")
			if p.Architecture != tt.arch {
				t.Errorf("architecture = %q, want %q", p.Architecture, tt.arch)
			}
		})
	}
}

func TestClassify_ManifestPriority(t *testing.T) {
	// package.json outranks requirements.txt; only the first is parsed.
	manifests := map[string]string{
		ManifestPackageJSON:  `{"dependencies": {"vue": "3.0.0"}}`,
		ManifestRequirements: "django==4.2",
	}

	p := Classify(manifests, "")

	if p.Language != LangJavaScript {
		t.Errorf("language = %q, want javascript (package.json wins)", p.Language)
	}
	if p.Framework != FrameworkVue {
		t.Errorf("framework = %q, want vue", p.Framework)
	}
}

func TestClassify_MalformedManifestDegrades(t *testing.T) {
	// Malformed package.json still consumes the priority chain: the
	// requirements.txt below it must not be consulted.
	manifests := map[string]string{
		ManifestPackageJSON:  `{not valid json`,
		ManifestRequirements: "django==4.2",
	}

	p := Classify(manifests, "")

	if p.Language != LangUnknown {
		t.Errorf("language = %q, want unknown after malformed manifest", p.Language)
	}
	if p.Framework != FrameworkUnknown {
		t.Errorf("framework = %q, want unknown", p.Framework)
	}
}

func TestClassify_PythonFrameworks(t *testing.T) {
	tests := []struct {
		reqs      string
		framework Framework
		paradigm  string
	}{
		{"django==4.2", FrameworkDjango, ParadigmMVC},
		{"flask>=2.0", FrameworkFlask, ParadigmMicro},
		{"fastapi\nuvicorn", FrameworkFastAPI, ParadigmAsync},
		{"torch==2.1", FrameworkML, ParadigmNeural},
		{"tensorflow", FrameworkML, ParadigmNeural},
		{"numpy\npandas", FrameworkDataSci, ParadigmAnalytical},
	}

	for _, tt := range tests {
		t.Run(tt.reqs, func(t *testing.T) {
			p := Classify(map[string]string{ManifestRequirements: tt.reqs}, "")
			if p.Language != LangPython {
				t.Errorf("language = %q, want python", p.Language)
			}
			if p.Framework != tt.framework {
				t.Errorf("framework = %q, want %q", p.Framework, tt.framework)
			}
			if p.Paradigm != tt.paradigm {
				t.Errorf("paradigm = %q, want %q", p.Paradigm, tt.paradigm)
			}
		})
	}
}

func TestClassify_PythonAsync(t *testing.T) {
	p := Classify(map[string]string{ManifestRequirements: "aiohttp==3.9"}, "")
	if !p.AsyncPatterns {
		t.Error("asyncPatterns = false, want true with aiohttp")
	}
}

func TestClassify_RustCargo(t *testing.T) {
	cargo := "[dependencies]\ntokio = { version = \"1\", features = [\"full\"] }\nwasm-bindgen = \"0.2\"\n"
	p := Classify(map[string]string{ManifestCargoToml: cargo}, "")

	if p.Language != LangRust {
		t.Errorf("language = %q, want rust", p.Language)
	}
	if p.Paradigm != ParadigmSystems {
		t.Errorf("paradigm = %q, want systems", p.Paradigm)
	}
	if !p.AsyncPatterns {
		t.Error("asyncPatterns = false, want true with tokio")
	}
	if p.Architecture != ArchWasm {
		t.Errorf("architecture = %q, want wasm", p.Architecture)
	}
}

func TestClassify_GoMod(t *testing.T) {
	p := Classify(map[string]string{ManifestGoMod: "module example.com/thing\n\ngo 1.22\n"}, "")

	if p.Language != LangGo {
		t.Errorf("language = %q, want go", p.Language)
	}
	if p.Paradigm != ParadigmConcurrent {
		t.Errorf("paradigm = %q, want concurrent", p.Paradigm)
	}
	if !p.AsyncPatterns {
		t.Error("asyncPatterns = false, want true for Go")
	}
}

func TestClassify_NoManifests(t *testing.T) {
	p := Classify(map[string]string{}, "a plain readme")

	if p.Language != LangUnknown || p.Framework != FrameworkUnknown {
		t.Errorf("got language %q framework %q, want unknown/unknown", p.Language, p.Framework)
	}
	if p.Scale != ScaleMinimal {
		t.Errorf("scale = %q, want minimal", p.Scale)
	}
}

func TestClassify_ReadmeArchitecture(t *testing.T) {
	tests := []struct {
		readme string
		arch   string
	}{
		{"A Microservice toolkit", ArchMicroservices},
		{"this monorepo contains everything", ArchMonorepo},
		{"deploy serverless functions", ArchServerless},
		{"nothing special here", ArchUnknown},
	}

	for _, tt := range tests {
		p := Classify(map[string]string{}, tt.readme)
		if p.Architecture != tt.arch {
			t.Errorf("readme %q: architecture = %q, want %q", tt.readme, p.Architecture, tt.arch)
		}
	}
}

func TestClassify_ReadmeDoesNotOverwriteManifestArchitecture(t *testing.T) {
	manifests := map[string]string{
		ManifestPackageJSON: `{"dependencies": {"express": "4.0.0"}}`,
	}

	p := Classify(manifests, "a microservice API")

	if p.Architecture != ArchServer {
		t.Errorf("architecture = %q, want server (manifest-derived wins)", p.Architecture)
	}
	if p.Philosophy["distributed"] != "true" {
		t.Error("distributed note missing despite microservice keyword")
	}
}

func TestClassify_DataFlow(t *testing.T) {
	tests := []struct {
		readme string
		want   string
	}{
		{"we use unidirectional data flow", "unidirectional"},
		{"inspired by flux", "unidirectional"},
		{"supports two-way binding", "bidirectional"},
		{"fully bidirectional sync", "bidirectional"},
	}

	for _, tt := range tests {
		p := Classify(map[string]string{}, tt.readme)
		if p.Philosophy["data_flow"] != tt.want {
			t.Errorf("readme %q: data_flow = %q, want %q", tt.readme, p.Philosophy["data_flow"], tt.want)
		}
	}
}

func TestClassify_Scale(t *testing.T) {
	makePkg := func(n int) string {
		var sb strings.Builder
		sb.WriteString(`{"dependencies": {`)
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `"dep-%d": "1.0.0"`, i)
		}
		sb.WriteString("}}")
		return sb.String()
	}

	tests := []struct {
		deps int
		want Scale
	}{
		{5, ScaleMinimal},
		{30, ScaleMinimal},
		{31, ScaleMedium},
		{100, ScaleMedium},
		{101, ScaleEnterprise},
	}

	for _, tt := range tests {
		p := Classify(map[string]string{ManifestPackageJSON: makePkg(tt.deps)}, "")
		if p.Scale != tt.want {
			t.Errorf("%d deps: scale = %q, want %q", tt.deps, p.Scale, tt.want)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	manifests := map[string]string{
		ManifestPackageJSON: `{"dependencies": {"react": "18.0.0", "rxjs": "7.0.0"}}`,
	}
	readme := "a microservice built with flux"

	a := Classify(manifests, readme)
	b := Classify(manifests, readme)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Classify not idempotent:\n  first  %+v\n  second %+v", a, b)
	}
}
