package output_test

import (
	"strings"
	"testing"

	"github.com/stupeter/strct/internal/output"
	"github.com/stupeter/strct/internal/types"
)

// sampleRootName defines the root directory name used in rendering tests.
const sampleRootName = "root"

// rawTreeExpected defines the expected glyph rendering of the sample tree.
const rawTreeExpected = "root/\n" +
	"├── a.txt\n" +
	"└── sub/\n" +
	"    └── b.txt\n"

// markdownTreeExpected defines the expected markdown rendering of the sample tree.
const markdownTreeExpected = "- **root/**\n" +
	"  - a.txt\n" +
	"  - **sub/**\n" +
	"    - b.txt\n"

// buildSampleTree constructs the root/{a.txt, sub/{b.txt}} node hierarchy.
func buildSampleTree() *types.TreeNode {
	nestedFile := &types.TreeNode{
		Path:  "root/sub/b.txt",
		Name:  "b.txt",
		Type:  types.NodeTypeFile,
		Depth: 2,
	}
	nestedDirectory := &types.TreeNode{
		Path:     "root/sub",
		Name:     "sub",
		Type:     types.NodeTypeDirectory,
		Depth:    1,
		Children: []*types.TreeNode{nestedFile},
	}
	plainFile := &types.TreeNode{
		Path:  "root/a.txt",
		Name:  "a.txt",
		Type:  types.NodeTypeFile,
		Depth: 1,
	}
	return &types.TreeNode{
		Path:     sampleRootName,
		Name:     sampleRootName,
		Type:     types.NodeTypeDirectory,
		Depth:    0,
		Children: []*types.TreeNode{plainFile, nestedDirectory},
	}
}

// TestRenderTreeRaw verifies the glyph rendering of the sample tree.
func TestRenderTreeRaw(testingInstance *testing.T) {
	actual := output.RenderTreeRaw([]*types.TreeNode{buildSampleTree()}, false)
	if actual != rawTreeExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderTreeRawLineCount verifies one line per node is emitted.
func TestRenderTreeRawLineCount(testingInstance *testing.T) {
	actual := output.RenderTreeRaw([]*types.TreeNode{buildSampleTree()}, false)
	lineCount := len(strings.Split(strings.TrimSuffix(actual, "\n"), "\n"))
	if lineCount != 4 {
		testingInstance.Errorf("expected 4 lines, got %d: %q", lineCount, actual)
	}
}

// TestRenderTreeRawNote verifies traversal notes appear on the node line.
func TestRenderTreeRawNote(testingInstance *testing.T) {
	cycleNode := &types.TreeNode{
		Path:  "root/loop",
		Name:  "loop",
		Type:  types.NodeTypeDirectory,
		Depth: 1,
		Note:  "symlink cycle",
	}
	rootNode := &types.TreeNode{
		Path:     sampleRootName,
		Name:     sampleRootName,
		Type:     types.NodeTypeDirectory,
		Children: []*types.TreeNode{cycleNode},
	}
	actual := output.RenderTreeRaw([]*types.TreeNode{rootNode}, false)
	expected := "root/\n└── loop/ [symlink cycle]\n"
	if actual != expected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderTreeMarkdown verifies the markdown bullet rendering of the sample tree.
func TestRenderTreeMarkdown(testingInstance *testing.T) {
	actual := output.RenderTreeMarkdown([]*types.TreeNode{buildSampleTree()})
	if actual != markdownTreeExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// fitRawExpected defines the expected raw rendering of a fit result.
const fitRawExpected = "Least-squares fit: samples.txt\n" +
	"Points: 4\n" +
	"Slope (k): 2.000000\n" +
	"Intercept (b): 1.000000\n" +
	"Sensitivity: 2.000000\n" +
	"Nonlinearity error: 0.25%\n"

// TestRenderFitRaw verifies the raw rendering of a fit result.
func TestRenderFitRaw(testingInstance *testing.T) {
	fitResult := &types.FitResult{
		DataFile:     "samples.txt",
		Points:       4,
		Slope:        2,
		Intercept:    1,
		Sensitivity:  2,
		Nonlinearity: 0.25,
	}
	actual := output.RenderFitRaw(fitResult)
	if actual != fitRawExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// jsonExpected defines the expected JSON rendering of a bare node.
var jsonExpected = "{\n" +
	"  \"path\": \"root\",\n" +
	"  \"name\": \"root\",\n" +
	"  \"type\": \"directory\",\n" +
	"  \"depth\": 0\n" +
	"}"

// TestRenderJSON verifies single results marshal without an array wrapper.
func TestRenderJSON(testingInstance *testing.T) {
	bareNode := &types.TreeNode{
		Path: sampleRootName,
		Name: sampleRootName,
		Type: types.NodeTypeDirectory,
	}
	actual, renderJSONError := output.RenderJSON([]interface{}{bareNode})
	if renderJSONError != nil {
		testingInstance.Fatalf("render json error: %v", renderJSONError)
	}
	if actual != jsonExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderJSONDeduplicates verifies duplicate paths collapse to one result.
func TestRenderJSONDeduplicates(testingInstance *testing.T) {
	bareNode := &types.TreeNode{
		Path: sampleRootName,
		Name: sampleRootName,
		Type: types.NodeTypeDirectory,
	}
	actual, renderJSONError := output.RenderJSON([]interface{}{bareNode, bareNode})
	if renderJSONError != nil {
		testingInstance.Fatalf("render json error: %v", renderJSONError)
	}
	if actual != jsonExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderJSONEmpty verifies empty input yields an empty JSON array.
func TestRenderJSONEmpty(testingInstance *testing.T) {
	actual, renderJSONError := output.RenderJSON(nil)
	if renderJSONError != nil {
		testingInstance.Fatalf("render json error: %v", renderJSONError)
	}
	if actual != "[]" {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderXML verifies a single result marshals bare with the XML header.
func TestRenderXML(testingInstance *testing.T) {
	bareNode := &types.TreeNode{
		Path: sampleRootName,
		Name: sampleRootName,
		Type: types.NodeTypeDirectory,
	}
	actual, renderXMLError := output.RenderXML([]interface{}{bareNode})
	if renderXMLError != nil {
		testingInstance.Fatalf("render xml error: %v", renderXMLError)
	}
	if !strings.HasPrefix(actual, "<?xml") {
		testingInstance.Errorf("missing XML header: %q", actual)
	}
	if !strings.Contains(actual, "<node>") || !strings.Contains(actual, "<name>root</name>") {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}
