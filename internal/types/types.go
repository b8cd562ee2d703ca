// Package types defines every cross-package data structure used by the strct CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandTree = "tree"
	CommandFit  = "fit"

	FormatRaw      = "raw"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatXML      = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode represents a single filesystem entry produced by the tree command.
// Children are populated for directories only and keep the deterministic
// lexicographic order of the traversal. Depth is the distance from the
// traversal root, which always carries depth zero.
type TreeNode struct {
	XMLName      xml.Name    `json:"-" xml:"node"`
	Path         string      `json:"path" xml:"path"`
	Name         string      `json:"name" xml:"name"`
	Type         string      `json:"type" xml:"type"`
	Depth        int         `json:"depth" xml:"depth"`
	Size         string      `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes    int64       `json:"-" xml:"-"`
	LastModified string      `json:"lastModified,omitempty" xml:"lastModified,omitempty"`
	Note         string      `json:"note,omitempty" xml:"note,omitempty"`
	Children     []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles   int         `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
	TotalSize    string      `json:"totalSize,omitempty" xml:"totalSize,omitempty"`
}

// FitResult is the outcome of the fit command for a single data file.
type FitResult struct {
	XMLName      xml.Name `json:"-" xml:"fit"`
	DataFile     string   `json:"dataFile" xml:"dataFile"`
	Points       int      `json:"points" xml:"points"`
	Slope        float64  `json:"slope" xml:"slope"`
	Intercept    float64  `json:"intercept" xml:"intercept"`
	Sensitivity  float64  `json:"sensitivity" xml:"sensitivity"`
	Nonlinearity float64  `json:"nonlinearityPercent" xml:"nonlinearityPercent"`
}

// OutputSummary captures aggregate information about rendered trees.
type OutputSummary struct {
	TotalFiles int    `json:"totalFiles" xml:"totalFiles"`
	TotalSize  string `json:"totalSize" xml:"totalSize"`
}
