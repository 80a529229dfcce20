package unused

import (
	"os"
	"path/filepath"
	"strings"

	"minisweep/pkg/parser"
)

// PathResolver turns one raw reference plus its containing file into zero
// or one canonical absolute file path, consulting the alias table and the
// filesystem.
type PathResolver struct {
	root    string // source-tree root (directory holding the app descriptor)
	aliases *AliasResolver
}

// NewPathResolver creates a resolver rooted at the source tree.
func NewPathResolver(root string, aliases *AliasResolver) *PathResolver {
	if aliases == nil {
		aliases = &AliasResolver{}
	}
	return &PathResolver{root: root, aliases: aliases}
}

// isExternalRef reports whether a reference points outside the file
// universe: data URIs, remote URLs, protocol-relative URLs, and any
// scheme-qualified target such as plugin://.
func isExternalRef(ref string) bool {
	if strings.HasPrefix(ref, "data:") {
		return true
	}
	if strings.HasPrefix(ref, "//") {
		return true
	}
	return strings.Contains(ref, "://")
}

// isScriptFile reports whether the containing file is a script, where bare
// specifiers mean package imports rather than root-relative registrations.
func isScriptFile(path string) bool {
	switch parser.DetectLanguage(path) {
	case parser.LangJavaScript, parser.LangTypeScript:
		return true
	}
	return false
}

// Resolve maps rawRef to a canonical absolute file path, or "" when the
// reference is external or nothing exists. The second result reports
// whether an alias prefix matched; a miss after a matched alias warrants an
// elevated warning.
//
// allowedExts is a priority list, not a filter: the earlier-listed
// extension wins when several siblings exist.
func (r *PathResolver) Resolve(rawRef, containingFile string, allowedExts []string) (string, bool) {
	ref := strings.TrimSpace(rawRef)
	if ref == "" || isExternalRef(ref) {
		return "", false
	}

	// A literal absolute path that exists wins outright; otherwise an
	// absolute ref degrades to root-relative below.
	if filepath.IsAbs(ref) {
		if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
			return filepath.Clean(ref), false
		}
	}

	if base := r.aliases.Resolve(ref); base != "" {
		return findExistingFile(base, allowedExts), true
	}

	var base string
	switch {
	case strings.HasPrefix(ref, "/"):
		base = filepath.Join(r.root, strings.TrimPrefix(ref, "/"))
	case strings.HasPrefix(ref, "."):
		base = filepath.Join(filepath.Dir(containingFile), ref)
	default:
		// Bare specifiers in scripts are package imports, never project
		// files. Everywhere else the implicit-root convention applies.
		if isScriptFile(containingFile) {
			return "", false
		}
		base = filepath.Join(r.root, ref)
	}

	return findExistingFile(base, allowedExts), false
}

// BasePath computes the directory-resolution base for a cluster reference
// (page or component registration) without probing extensions. Returns ""
// for external references, plus whether an alias matched.
func (r *PathResolver) BasePath(rawRef, containingFile string) (string, bool) {
	ref := strings.TrimSpace(rawRef)
	if ref == "" || isExternalRef(ref) {
		return "", false
	}
	if base := r.aliases.Resolve(ref); base != "" {
		return base, true
	}
	switch {
	case strings.HasPrefix(ref, "/"):
		return filepath.Join(r.root, strings.TrimPrefix(ref, "/")), false
	case strings.HasPrefix(ref, "."):
		return filepath.Join(filepath.Dir(containingFile), ref), false
	default:
		return filepath.Join(r.root, ref), false
	}
}

// findExistingFile probes, in order: the base itself as a regular file,
// base+ext for each allowed extension, then base/index+ext when base is a
// directory. Returns "" when nothing exists.
func findExistingFile(base string, allowedExts []string) string {
	if info, err := os.Stat(base); err == nil {
		if info.Mode().IsRegular() {
			return filepath.Clean(base)
		}
		if info.IsDir() {
			// Fall through to extension probing first: a sibling file
			// named base+ext outranks the directory's index file.
			for _, ext := range allowedExts {
				if isRegular(base + ext) {
					return filepath.Clean(base + ext)
				}
			}
			for _, ext := range allowedExts {
				idx := filepath.Join(base, "index"+ext)
				if isRegular(idx) {
					return filepath.Clean(idx)
				}
			}
			return ""
		}
	}

	for _, ext := range allowedExts {
		if isRegular(base + ext) {
			return filepath.Clean(base + ext)
		}
	}
	return ""
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
