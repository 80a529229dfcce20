package unused

import (
	"path/filepath"
	"testing"
)

func TestLoadAliasesFromTSConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{
  "compilerOptions": {
    "baseUrl": "./src",
    "paths": {
      "@utils/*": ["utils/*"],
      "@components/*": ["components/*", "legacy/components/*"]
    }
  }
}`)

	r, found := LoadAliases(root, nil, discardLogger(), func(Warning) {})
	if !found {
		t.Fatal("aliases not found")
	}

	got := r.Resolve("@utils/fmt")
	want := filepath.Join(root, "src", "utils", "fmt")
	if got != want {
		t.Errorf("Resolve(@utils/fmt) = %q, want %q", got, want)
	}

	// First-listed target wins for multi-target mappings.
	got = r.Resolve("@components/card")
	want = filepath.Join(root, "src", "components", "card")
	if got != want {
		t.Errorf("Resolve(@components/card) = %q, want %q", got, want)
	}
}

func TestLoadAliasesCustomShadowsTSConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{
  "compilerOptions": {
    "paths": {"@utils/*": ["ts/utils/*"]}
  }
}`)

	r, _ := LoadAliases(root, map[string]string{"@utils": "custom/utils"}, discardLogger(), func(Warning) {})
	got := r.Resolve("@utils/fmt")
	want := filepath.Join(root, "custom", "utils", "fmt")
	if got != want {
		t.Errorf("custom alias should shadow tsconfig: got %q, want %q", got, want)
	}
}

func TestLoadAliasesMalformedTSConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{not json`)

	var warned []Warning
	r, found := LoadAliases(root, nil, discardLogger(), func(w Warning) { warned = append(warned, w) })

	if found {
		t.Error("malformed tsconfig should contribute no aliases")
	}
	if r.Resolve("@anything/x") != "" {
		t.Error("resolver should be empty")
	}
	if len(warned) != 1 || warned[0].Kind != WarnAliasMisconfiguration {
		t.Errorf("warnings = %+v, want one alias_misconfiguration", warned)
	}
}

func TestLoadAliasesNoTSConfig(t *testing.T) {
	r, found := LoadAliases(t.TempDir(), nil, discardLogger(), func(Warning) {})
	if found {
		t.Error("no sources should mean no aliases")
	}
	if r.Matches("@x/y") {
		t.Error("empty resolver must not match")
	}
}

func TestAliasPrefixBoundaries(t *testing.T) {
	root := t.TempDir()
	r, _ := LoadAliases(root, map[string]string{"@u": "src/u"}, discardLogger(), func(Warning) {})

	if got := r.Resolve("@u"); got != filepath.Join(root, "src", "u") {
		t.Errorf("exact prefix: got %q", got)
	}
	if got := r.Resolve("@u/x"); got != filepath.Join(root, "src", "u", "x") {
		t.Errorf("prefix with slash: got %q", got)
	}
	// "@ui/x" must not match the "@u" prefix.
	if got := r.Resolve("@ui/x"); got != "" {
		t.Errorf("prefix boundary violated: got %q", got)
	}
}

func TestAliasLongestPrefixWins(t *testing.T) {
	root := t.TempDir()
	r, _ := LoadAliases(root, map[string]string{
		"a":   "src/wide",
		"a/b": "src/narrow",
	}, discardLogger(), func(Warning) {})

	// The narrower mapping shadows the wider one under its subtree.
	if got := r.Resolve("a/b/x"); got != filepath.Join(root, "src", "narrow", "x") {
		t.Errorf("Resolve(a/b/x) = %q, want the a/b target", got)
	}
	if got := r.Resolve("a/c"); got != filepath.Join(root, "src", "wide", "c") {
		t.Errorf("Resolve(a/c) = %q, want the a target", got)
	}
	if got := r.Resolve("a/b"); got != filepath.Join(root, "src", "narrow") {
		t.Errorf("Resolve(a/b) = %q, want the a/b target itself", got)
	}
}
