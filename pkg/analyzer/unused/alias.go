package unused

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
)

// aliasEntry maps one alias prefix onto an ordered list of absolute base
// directories; the first-listed directory wins on ambiguity.
type aliasEntry struct {
	prefix  string
	targets []string
}

// AliasResolver holds the merged path-alias table for one run. The table is
// built once and immutable afterward. Custom project aliases take
// precedence over tsconfig path mappings.
type AliasResolver struct {
	entries []aliasEntry
}

// LoadAliases builds the alias table from the project's tsconfig.json
// compilerOptions.paths (normalized against baseUrl, wildcard suffix
// stripped) and the higher-precedence custom alias map from project config.
// Malformed sources degrade to an empty contribution with a logged warning;
// the returned bool reports whether any alias was found.
func LoadAliases(root string, custom map[string]string, log *slog.Logger, warn func(Warning)) (*AliasResolver, bool) {
	r := &AliasResolver{}

	// Custom aliases first so they shadow tsconfig mappings.
	customKeys := make([]string, 0, len(custom))
	for k := range custom {
		customKeys = append(customKeys, k)
	}
	sort.Strings(customKeys)
	for _, prefix := range customKeys {
		target := custom[prefix]
		if !filepath.IsAbs(target) {
			target = filepath.Join(root, target)
		}
		r.add(prefix, []string{filepath.Clean(target)})
	}

	r.loadTSConfig(root, log, warn)
	return r, len(r.entries) > 0
}

func (r *AliasResolver) add(prefix string, targets []string) {
	prefix = strings.TrimSuffix(prefix, "/*")
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || len(targets) == 0 {
		return
	}
	for _, e := range r.entries {
		if e.prefix == prefix {
			return
		}
	}
	r.entries = append(r.entries, aliasEntry{prefix: prefix, targets: targets})
}

func (r *AliasResolver) loadTSConfig(root string, log *slog.Logger, warn func(Warning)) {
	path := filepath.Join(root, "tsconfig.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	raw, err := koanfjson.Parser().Unmarshal(data)
	if err != nil {
		log.Warn("malformed tsconfig, aliases ignored", "path", path, "error", err)
		warn(Warning{
			Kind:    WarnAliasMisconfiguration,
			Path:    path,
			Message: "malformed tsconfig.json, path aliases ignored: " + err.Error(),
		})
		return
	}

	opts, _ := raw["compilerOptions"].(map[string]any)
	if opts == nil {
		return
	}
	baseDir := root
	if baseURL, ok := opts["baseUrl"].(string); ok && baseURL != "" {
		baseDir = filepath.Join(root, baseURL)
	}
	paths, _ := opts["paths"].(map[string]any)
	if paths == nil {
		return
	}

	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		rawTargets, ok := paths[prefix].([]any)
		if !ok {
			continue
		}
		var targets []string
		for _, t := range rawTargets {
			s, ok := t.(string)
			if !ok {
				continue
			}
			s = strings.TrimSuffix(s, "/*")
			s = strings.TrimSuffix(s, "/")
			targets = append(targets, filepath.Clean(filepath.Join(baseDir, s)))
		}
		r.add(prefix, targets)
	}
}

// Resolve maps ref onto the first configured target directory of the
// matching alias. A prefix matches when it equals ref exactly or is
// followed by '/'; among several matches the longest prefix wins, so a
// narrower mapping like "a/b" beats "a". The returned base path is
// absolute but not yet extension-checked; "" means no alias matched.
func (r *AliasResolver) Resolve(ref string) string {
	var best *aliasEntry
	for i := range r.entries {
		e := &r.entries[i]
		if ref != e.prefix && !strings.HasPrefix(ref, e.prefix+"/") {
			continue
		}
		if best == nil || len(e.prefix) > len(best.prefix) {
			best = e
		}
	}
	if best == nil {
		return ""
	}
	if ref == best.prefix {
		return best.targets[0]
	}
	return filepath.Join(best.targets[0], ref[len(best.prefix)+1:])
}

// Matches reports whether ref falls under any alias prefix.
func (r *AliasResolver) Matches(ref string) bool {
	return r.Resolve(ref) != ""
}
