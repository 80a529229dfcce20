package unused

import (
	"encoding/json"
	"fmt"
	"strings"
)

// componentExts are the defining extensions of a page or component cluster:
// the set of co-located files sharing one base name.
var componentExts = []string{".js", ".ts", ".json", ".wxml", ".wxss"}

// pluginScheme marks component targets provided by a plugin. They live
// outside the file universe this graph models and are skipped, not
// reported.
const pluginScheme = "plugin://"

// GenericSlot is one componentGenerics entry; only the default target
// matters for reachability.
type GenericSlot struct {
	Default string `json:"default"`
}

// UnmarshalJSON accepts both on-disk shapes: a bare boolean marker and an
// object carrying a default target.
func (g *GenericSlot) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*g = GenericSlot{}
		return nil
	}
	type plain GenericSlot
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = GenericSlot(p)
	return nil
}

// SubPackage is one normalized sub-package entry.
type SubPackage struct {
	Root  string   `json:"root"`
	Pages []string `json:"pages"`
}

// TabBarItem is one tab of the tab bar.
type TabBarItem struct {
	PagePath         string `json:"pagePath"`
	IconPath         string `json:"iconPath"`
	SelectedIconPath string `json:"selectedIconPath"`
}

// TabBar holds the tab list.
type TabBar struct {
	List []TabBarItem `json:"list"`
}

// AppDescriptor is the normalized shape of the root application
// descriptor. The duck-typed on-disk synonyms (subPackages/subpackages,
// string-or-object workers) are normalized once at this boundary so the
// rest of the analyzer never branches on raw shape.
type AppDescriptor struct {
	Pages             []string               `json:"pages"`
	SubPackages       []SubPackage           `json:"subPackages"`
	TabBar            *TabBar                `json:"tabBar"`
	UsingComponents   map[string]string      `json:"usingComponents"`
	ComponentGenerics map[string]GenericSlot `json:"componentGenerics"`
	Workers           string                 `json:"workers"`
	ThemeLocation     string                 `json:"themeLocation"`
}

type rawAppDescriptor struct {
	Pages             []string               `json:"pages"`
	SubPackages       []SubPackage           `json:"subPackages"`
	SubpackagesAlt    []SubPackage           `json:"subpackages"`
	TabBar            *TabBar                `json:"tabBar"`
	UsingComponents   map[string]string      `json:"usingComponents"`
	ComponentGenerics map[string]GenericSlot `json:"componentGenerics"`
	Workers           json.RawMessage        `json:"workers"`
	ThemeLocation     string                 `json:"themeLocation"`
}

// ParseAppDescriptor decodes and normalizes root descriptor content.
func ParseAppDescriptor(data []byte) (*AppDescriptor, error) {
	var raw rawAppDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid app descriptor: %w", err)
	}

	d := &AppDescriptor{
		Pages:             raw.Pages,
		SubPackages:       raw.SubPackages,
		TabBar:            raw.TabBar,
		UsingComponents:   raw.UsingComponents,
		ComponentGenerics: raw.ComponentGenerics,
		ThemeLocation:     raw.ThemeLocation,
	}
	if len(d.SubPackages) == 0 {
		d.SubPackages = raw.SubpackagesAlt
	}
	d.Workers = parseWorkers(raw.Workers)
	return d, nil
}

// parseWorkers accepts the two on-disk workers shapes: a plain directory
// string or an object with a path field.
func parseWorkers(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Path
	}
	return ""
}

// ComponentConfig is the normalized shape of a page or custom-component
// descriptor file.
type ComponentConfig struct {
	Component         bool                   `json:"component"`
	UsingComponents   map[string]string      `json:"usingComponents"`
	ComponentGenerics map[string]GenericSlot `json:"componentGenerics"`
}

// ParseComponentConfig decodes a page/component descriptor.
func ParseComponentConfig(data []byte) (*ComponentConfig, error) {
	var cfg ComponentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid component descriptor: %w", err)
	}
	return &cfg, nil
}

// isPluginRef reports whether a component target uses the plugin scheme.
func isPluginRef(ref string) bool {
	return strings.HasPrefix(ref, pluginScheme)
}
