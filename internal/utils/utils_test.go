package utils_test

import (
	"reflect"
	"testing"

	"github.com/stupeter/strct/internal/utils"
)

// wildcardLogPattern defines a pattern matching log files.
const wildcardLogPattern = "*.log"

// nestedDirectoryName defines the directory used for nested path tests.
const nestedDirectoryName = "subdir"

// nodeModulesDirectoryPattern defines the ignore pattern for the node_modules directory inside nestedDirectoryName.
const nodeModulesDirectoryPattern = nestedDirectoryName + "/node_modules/"

// nodeModulesFilePath defines a file inside the node_modules directory.
const nodeModulesFilePath = nestedDirectoryName + "/node_modules/index.js"

// unrelatedNodeModulesFilePath defines a node_modules path in an unrelated directory.
const unrelatedNodeModulesFilePath = "other/" + nodeModulesFilePath

// TestShouldIgnoreByPathWildcard verifies single-segment glob matching against the base name.
func TestShouldIgnoreByPathWildcard(testingInstance *testing.T) {
	if !utils.ShouldIgnoreByPath("trace.log", []string{wildcardLogPattern}) {
		testingInstance.Error("expected trace.log to match *.log")
	}
	if !utils.ShouldIgnoreByPath(nestedDirectoryName+"/trace.log", []string{wildcardLogPattern}) {
		testingInstance.Error("expected nested trace.log to match *.log")
	}
	if utils.ShouldIgnoreByPath("trace.txt", []string{wildcardLogPattern}) {
		testingInstance.Error("expected trace.txt not to match *.log")
	}
}

// TestShouldIgnoreByPathDirectoryPattern verifies trailing-slash patterns match whole subtrees.
func TestShouldIgnoreByPathDirectoryPattern(testingInstance *testing.T) {
	patterns := []string{nodeModulesDirectoryPattern}
	if !utils.ShouldIgnoreByPath(nodeModulesFilePath, patterns) {
		testingInstance.Errorf("expected %s to match %s", nodeModulesFilePath, nodeModulesDirectoryPattern)
	}
	if utils.ShouldIgnoreByPath(unrelatedNodeModulesFilePath, patterns) {
		testingInstance.Errorf("expected %s not to match %s", unrelatedNodeModulesFilePath, nodeModulesDirectoryPattern)
	}
}

// TestShouldIgnoreByPathExclusionPrefix verifies EXCL: patterns exclude root-level subtrees.
func TestShouldIgnoreByPathExclusionPrefix(testingInstance *testing.T) {
	patterns := []string{utils.ExclusionPrefix + "vendor"}
	if !utils.ShouldIgnoreByPath("vendor", patterns) {
		testingInstance.Error("expected vendor to be excluded")
	}
	if !utils.ShouldIgnoreByPath("vendor/module/a.go", patterns) {
		testingInstance.Error("expected vendor subtree to be excluded")
	}
	if utils.ShouldIgnoreByPath("pkg/vendor.go", patterns) {
		testingInstance.Error("expected pkg/vendor.go to remain")
	}
}

// TestShouldIgnoreByPathServiceFiles verifies the tool's own ignore files are always excluded.
func TestShouldIgnoreByPathServiceFiles(testingInstance *testing.T) {
	if !utils.ShouldIgnoreByPath(utils.IgnoreFileName, nil) {
		testingInstance.Errorf("expected %s to be excluded", utils.IgnoreFileName)
	}
	if !utils.ShouldIgnoreByPath(utils.GitIgnoreFileName, nil) {
		testingInstance.Errorf("expected %s to be excluded", utils.GitIgnoreFileName)
	}
}

// TestIsHiddenName verifies the hidden-entry convention.
func TestIsHiddenName(testingInstance *testing.T) {
	if !utils.IsHiddenName(".secret") {
		testingInstance.Error("expected .secret to be hidden")
	}
	if utils.IsHiddenName("visible.txt") {
		testingInstance.Error("expected visible.txt not to be hidden")
	}
	if utils.IsHiddenName(".") {
		testingInstance.Error("expected the current-directory name not to be hidden")
	}
}

// TestDeduplicatePatterns verifies order-preserving deduplication.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	input := []string{"a", "b", "a", "c", "b"}
	expected := []string{"a", "b", "c"}
	actual := utils.DeduplicatePatterns(input)
	if !reflect.DeepEqual(actual, expected) {
		testingInstance.Errorf("unexpected result: got %v want %v", actual, expected)
	}
}

// TestRelativePathOrSelf verifies relative path calculation against a root.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	if relative := utils.RelativePathOrSelf(rootDirectory, rootDirectory); relative != "." {
		testingInstance.Errorf("expected '.', got %q", relative)
	}
	childPath := rootDirectory + "/" + nestedDirectoryName
	if relative := utils.RelativePathOrSelf(childPath, rootDirectory); relative != nestedDirectoryName {
		testingInstance.Errorf("expected %q, got %q", nestedDirectoryName, relative)
	}
}
