package unused

import (
	"fmt"

	"minisweep/pkg/graph"
)

// WarningKind classifies a recoverable analysis warning.
type WarningKind string

const (
	// WarnResolutionMiss means a raw reference could not be mapped to an
	// existing file; the edge is omitted.
	WarnResolutionMiss WarningKind = "resolution_miss"
	// WarnParseFailure means a file could not be read or parsed; the node
	// is kept with zero outgoing edges.
	WarnParseFailure WarningKind = "parse_failure"
	// WarnAliasMisconfiguration means an alias source (tsconfig or project
	// config) was malformed; the alias table degrades to empty.
	WarnAliasMisconfiguration WarningKind = "alias_misconfiguration"
)

// Warning is a recoverable problem encountered during analysis. Elevated
// marks a resolution miss that followed a matched alias: alias intent
// implies the author believed the target exists.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Path     string      `json:"path,omitempty"`
	Ref      string      `json:"ref,omitempty"`
	Message  string      `json:"message"`
	Elevated bool        `json:"elevated,omitempty"`
}

// ConfigurationError is the only fatal analysis failure: no descriptor
// content and no entry points could be resolved at all. Proceeding would
// mark the entire project dead.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Summary aggregates analysis counts.
type Summary struct {
	TotalFiles     int   `json:"total_files"`
	ReachableCount int   `json:"reachable_count"`
	UnusedCount    int   `json:"unused_count"`
	UnusedBytes    int64 `json:"unused_bytes"`
}

// Analysis is the full result of one analyzer run. Graph is the typed
// dependency graph; ReachableNodeIDs and UnusedFiles are the two outputs
// every downstream command keys off.
type Analysis struct {
	Root             string              `json:"root"`
	Graph            *graph.Graph        `json:"-"`
	Serialized       graph.Serialized    `json:"graph"`
	ReachableNodeIDs []string            `json:"reachable_node_ids"`
	UnusedFiles      []string            `json:"unused_files"`
	TagUsage         map[string][]string `json:"tag_usage,omitempty"`
	Warnings         []Warning           `json:"warnings,omitempty"`
	Summary          Summary             `json:"summary"`

	labelIndex map[string]string
}
