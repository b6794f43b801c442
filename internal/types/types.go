// Package types defines every cross‑package data structure used by the barrel CLI.
package types

import "encoding/xml"

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Decision is the answer to an aggregator overwrite conflict.
type Decision string

const (
	DecisionOverwrite    Decision = "Overwrite"
	DecisionSkip         Decision = "Skip"
	DecisionOverwriteAll Decision = "Overwrite All"
)

// ConflictDecisions lists the choices offered for a conflict, in prompt order.
var ConflictDecisions = []Decision{DecisionOverwrite, DecisionSkip, DecisionOverwriteAll}

// AggregatorKind tells whether an aggregator is named after its directory or is the index fallback.
type AggregatorKind string

const (
	AggregatorKindDefault AggregatorKind = "default"
	AggregatorKindIndex   AggregatorKind = "index"
)

// DirectoryState is the terminal outcome of one directory visit.
type DirectoryState string

const (
	DirectoryStateWritten DirectoryState = "written"
	DirectoryStateSkipped DirectoryState = "skipped"
	DirectoryStateIgnored DirectoryState = "ignored"
	DirectoryStateFailed  DirectoryState = "failed"
)

// NoticeLevel classifies a message emitted during generation.
type NoticeLevel string

const (
	NoticeLevelInfo    NoticeLevel = "info"
	NoticeLevelWarning NoticeLevel = "warning"
	NoticeLevelError   NoticeLevel = "error"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// DirectoryResult records what happened to one directory.
type DirectoryResult struct {
	Path    string         `json:"path" xml:"path,attr"`
	Target  string         `json:"target,omitempty" xml:"target,attr,omitempty"`
	Kind    AggregatorKind `json:"kind,omitempty" xml:"kind,attr,omitempty"`
	State   DirectoryState `json:"state" xml:"state,attr"`
	Exports int            `json:"exports,omitempty" xml:"exports,attr,omitempty"`
}

// Notice is a message surfaced to the user while generating.
type Notice struct {
	Level   NoticeLevel `json:"level" xml:"level,attr"`
	Path    string      `json:"path,omitempty" xml:"path,attr,omitempty"`
	Message string      `json:"message" xml:",chardata"`
}

// GenerationReport is the outcome of one top-level invocation.
type GenerationReport struct {
	XMLName     xml.Name          `json:"-" xml:"report"`
	Root        string            `json:"root" xml:"root,attr"`
	Completed   bool              `json:"completed" xml:"completed,attr"`
	Directories []DirectoryResult `json:"directories" xml:"directories>directory"`
	Notices     []Notice          `json:"notices,omitempty" xml:"notices>notice,omitempty"`
}

// Count returns the number of directories that ended in the given state.
func (report GenerationReport) Count(state DirectoryState) int {
	total := 0
	for _, directory := range report.Directories {
		if directory.State == state {
			total++
		}
	}
	return total
}
