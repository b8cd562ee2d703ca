// Package output renders collected command results into the supported
// textual formats: a glyph tree, markdown bullets, JSON, and XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/stupeter/strct/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlResultsName = "results"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// directorySuffix visually distinguishes directories from files.
	directorySuffix = "/"

	markdownIndentUnit      = "  "
	markdownFileFormat      = "%s- %s\n"
	markdownDirectoryFormat = "%s- **%s/**\n"

	noteFormat         = " [%s]"
	summarySuffixInfix = " ("

	fitRawFormat = "Least-squares fit: %s\n" +
		"Points: %d\n" +
		"Slope (k): %.6f\n" +
		"Intercept (b): %.6f\n" +
		"Sensitivity: %.6f\n" +
		"Nonlinearity error: %.2f%%\n"

	// nodePrefix is the key prefix used when deduplicating tree nodes.
	nodePrefix = "node:"
	// fitPrefix is the key prefix used when deduplicating fit results.
	fitPrefix = "fit:"
)

// RenderTreeRaw returns the glyph rendering of the provided root nodes.
// Each root contributes one line for itself plus one line per visited entry;
// sibling roots are separated by a blank line.
func RenderTreeRaw(rootNodes []*types.TreeNode, includeSummary bool) string {
	var buffer bytes.Buffer
	for rootIndex, rootNode := range rootNodes {
		if rootIndex > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(nodeLabel(rootNode, includeSummary))
		buffer.WriteString("\n")
		renderRawChildren(&buffer, rootNode, "", includeSummary)
	}
	return buffer.String()
}

// renderRawChildren writes the children of a directory node with tree-drawing
// connectors, recursing with the accumulated padding prefix.
func renderRawChildren(buffer *bytes.Buffer, treeNode *types.TreeNode, prefix string, includeSummary bool) {
	numberOfChildren := len(treeNode.Children)
	for childIndex, childNode := range treeNode.Children {
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if childIndex == numberOfChildren-1 {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		buffer.WriteString(prefix)
		buffer.WriteString(connector)
		buffer.WriteString(nodeLabel(childNode, includeSummary))
		buffer.WriteString("\n")
		if childNode.Type == types.NodeTypeDirectory {
			renderRawChildren(buffer, childNode, childPrefix, includeSummary)
		}
	}
}

// nodeLabel formats a single node line: name, directory suffix, optional
// summary, and any traversal note.
func nodeLabel(treeNode *types.TreeNode, includeSummary bool) string {
	label := treeNode.Name
	if treeNode.Type == types.NodeTypeDirectory {
		label += directorySuffix
		if includeSummary {
			label += summarySuffixInfix + formatCount(treeNode.TotalFiles) + ", " + treeNode.TotalSize + ")"
		}
	} else if includeSummary && treeNode.Size != "" {
		label += summarySuffixInfix + treeNode.Size + ")"
	}
	if treeNode.Note != "" {
		label += fmt.Sprintf(noteFormat, treeNode.Note)
	}
	return label
}

// formatCount pluralizes a file count for summary labels.
func formatCount(totalFiles int) string {
	if totalFiles == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", totalFiles)
}

// RenderTreeMarkdown returns the markdown bullet rendering of the provided
// root nodes: two spaces of indentation per depth level, directories bolded
// with a trailing slash.
func RenderTreeMarkdown(rootNodes []*types.TreeNode) string {
	var buffer bytes.Buffer
	for _, rootNode := range rootNodes {
		renderMarkdownNode(&buffer, rootNode)
	}
	return buffer.String()
}

func renderMarkdownNode(buffer *bytes.Buffer, treeNode *types.TreeNode) {
	indentation := ""
	for depthIndex := 0; depthIndex < treeNode.Depth; depthIndex++ {
		indentation += markdownIndentUnit
	}
	if treeNode.Type == types.NodeTypeDirectory {
		fmt.Fprintf(buffer, markdownDirectoryFormat, indentation, treeNode.Name)
	} else {
		fmt.Fprintf(buffer, markdownFileFormat, indentation, treeNode.Name)
	}
	for _, childNode := range treeNode.Children {
		renderMarkdownNode(buffer, childNode)
	}
}

// RenderFitRaw returns the raw text rendering of a fit result.
func RenderFitRaw(fitResult *types.FitResult) string {
	return fmt.Sprintf(fitRawFormat,
		fitResult.DataFile,
		fitResult.Points,
		fitResult.Slope,
		fitResult.Intercept,
		fitResult.Sensitivity,
		fitResult.Nonlinearity,
	)
}

// RenderJSON deduplicates and marshals results to JSON. A single result is
// marshaled bare; multiple results are wrapped in an array.
func RenderJSON(collected []interface{}) (string, error) {
	dedupedItems := removeDuplicateCollectedItems(collected)
	if len(dedupedItems) == 0 {
		return "[]", nil
	}
	if len(dedupedItems) == 1 {
		encoded, jsonEncodeError := json.MarshalIndent(dedupedItems[0], indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	}
	encoded, jsonEncodeError := json.MarshalIndent(dedupedItems, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderXML deduplicates and marshals results to XML. A single result is
// marshaled bare; multiple results are wrapped in a results element.
func RenderXML(collected []interface{}) (string, error) {
	dedupedItems := removeDuplicateCollectedItems(collected)
	if len(dedupedItems) == 1 {
		encoded, xmlMarshalError := xml.MarshalIndent(dedupedItems[0], indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", xmlMarshalError
		}
		return xmlHeader + string(encoded), nil
	}
	wrapper := struct {
		XMLName xml.Name      `xml:""`
		Items   []interface{} `xml:"item"`
	}{XMLName: xml.Name{Local: xmlResultsName}, Items: dedupedItems}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// removeDuplicateCollectedItems returns a slice with duplicate collected items removed.
func removeDuplicateCollectedItems(items []interface{}) []interface{} {
	seen := make(map[string]struct{}, len(items))
	var out []interface{}
	for _, item := range items {
		var key string
		switch outputItem := item.(type) {
		case *types.TreeNode:
			key = nodePrefix + outputItem.Path
		case *types.FitResult:
			key = fitPrefix + outputItem.DataFile
		default:
			continue
		}
		if _, exists := seen[key]; !exists {
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
