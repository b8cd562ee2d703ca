// Package commands contains the core logic for data collection for each command.
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stupeter/strct/internal/types"
	"github.com/stupeter/strct/internal/utils"
)

const (
	// warningStatPathFormat is used when file information cannot be retrieved.
	warningStatPathFormat = "Warning: unable to stat %s: %v\n"
	// warningSkipSubdirFormat is used when a subdirectory cannot be listed.
	warningSkipSubdirFormat = "Warning: skipping subdirectory %s due to error: %v\n"
	// warningResolvePathFormat is used when a symlink target cannot be resolved.
	warningResolvePathFormat = "Warning: unable to resolve %s: %v\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootPathFormat wraps fatal root path failures.
	errorRootPathFormat = "tree root %s: %w"
	// errorReadDirectoryFormat is used when the root directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorNotDirectoryFormat is used when the root path is not a directory.
	errorNotDirectoryFormat = "tree root %s is not a directory"

	// noteUnreadableFormat marks entries whose directory listing failed.
	noteUnreadableFormat = "unreadable: %v"
	// noteStatFailedFormat marks entries whose file information is unavailable.
	noteStatFailedFormat = "stat failed: %v"
	// noteSymlinkCycle marks directories skipped because their canonical path
	// was already visited on the current walk.
	noteSymlinkCycle = "symlink cycle"
)

// Sentinel errors for fatal root path failures.
var (
	// ErrPathNotFound reports that a root path does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrPathUnreadable reports that a root path cannot be read.
	ErrPathUnreadable = errors.New("path is not readable")
)

// TreeBuilder builds directory tree nodes using configured options.
// Each GetTreeData call is independent and reentrant; the builder holds no
// state across invocations.
type TreeBuilder struct {
	// MaxDepth limits how deep the walk descends. Zero means unlimited.
	// A node whose depth equals MaxDepth is emitted but not descended into.
	MaxDepth int
	// IncludeHidden controls whether entries with a leading dot are emitted.
	IncludeHidden bool
	// IgnorePatterns excludes matching entries, evaluated against the path
	// relative to the traversal root (see utils.ShouldIgnoreByPath).
	IgnorePatterns []string
	// IncludeSummary attaches aggregate file counts and sizes to directories.
	IncludeSummary bool
}

// workItem pairs a directory node awaiting expansion with its canonical path.
type workItem struct {
	node     *types.TreeNode
	realPath string
}

// GetTreeData generates the tree structure data for a given directory.
// It returns a slice containing a single root node representing the directory.
// Failures on the root path are fatal; failures on individual entries are
// recorded as notes on the affected node and printed to stderr as warnings.
func (treeBuilder *TreeBuilder) GetTreeData(rootDirectoryPath string) ([]*types.TreeNode, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootInfo, rootStatError := os.Stat(absoluteRootDirPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootPathFormat, absoluteRootDirPath, classifyPathError(rootStatError))
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorNotDirectoryFormat, absoluteRootDirPath)
	}

	rootNode := &types.TreeNode{
		Path:         absoluteRootDirPath,
		Name:         filepath.Base(absoluteRootDirPath),
		Type:         types.NodeTypeDirectory,
		Depth:        0,
		LastModified: utils.FormatTimestamp(rootInfo.ModTime()),
	}

	rootRealPath, rootResolveError := filepath.EvalSymlinks(absoluteRootDirPath)
	if rootResolveError != nil {
		return nil, fmt.Errorf(errorRootPathFormat, absoluteRootDirPath, classifyPathError(rootResolveError))
	}

	if walkError := treeBuilder.walk(rootNode, rootRealPath, absoluteRootDirPath); walkError != nil {
		return nil, walkError
	}

	if treeBuilder.IncludeSummary {
		applySummaries(rootNode)
	}

	return []*types.TreeNode{rootNode}, nil
}

// walk expands directory nodes using an explicit work-list instead of native
// recursion, so pathological directory depths cannot exhaust the call stack.
// Children are attached to their parent in lexicographic order at expansion
// time, which keeps the resulting tree deterministic regardless of the order
// in which pending directories are popped.
func (treeBuilder *TreeBuilder) walk(rootNode *types.TreeNode, rootRealPath string, rootDirectoryPath string) error {
	visitedRealPaths := map[string]struct{}{rootRealPath: {}}
	pendingDirectories := []workItem{{node: rootNode, realPath: rootRealPath}}

	for len(pendingDirectories) > 0 {
		currentItem := pendingDirectories[len(pendingDirectories)-1]
		pendingDirectories = pendingDirectories[:len(pendingDirectories)-1]
		currentNode := currentItem.node

		directoryEntries, readDirectoryError := os.ReadDir(currentNode.Path)
		if readDirectoryError != nil {
			if currentNode == rootNode {
				return fmt.Errorf(errorReadDirectoryFormat, currentNode.Path, classifyPathError(readDirectoryError))
			}
			fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, currentNode.Path, readDirectoryError)
			currentNode.Note = fmt.Sprintf(noteUnreadableFormat, readDirectoryError)
			continue
		}

		for _, directoryEntry := range directoryEntries {
			childNode, descend := treeBuilder.buildChildNode(currentNode, directoryEntry, rootDirectoryPath)
			if childNode == nil {
				continue
			}
			currentNode.Children = append(currentNode.Children, childNode)
			if !descend {
				continue
			}

			childRealPath, resolveError := filepath.EvalSymlinks(childNode.Path)
			if resolveError != nil {
				fmt.Fprintf(os.Stderr, warningResolvePathFormat, childNode.Path, resolveError)
				childNode.Note = fmt.Sprintf(noteStatFailedFormat, resolveError)
				continue
			}
			if _, alreadyVisited := visitedRealPaths[childRealPath]; alreadyVisited {
				childNode.Note = noteSymlinkCycle
				continue
			}
			visitedRealPaths[childRealPath] = struct{}{}
			pendingDirectories = append(pendingDirectories, workItem{node: childNode, realPath: childRealPath})
		}
	}

	return nil
}

// buildChildNode constructs a node for one directory entry, or nil when the
// entry is filtered out. The second result reports whether the walk should
// descend into the node.
func (treeBuilder *TreeBuilder) buildChildNode(parentNode *types.TreeNode, directoryEntry os.DirEntry, rootDirectoryPath string) (*types.TreeNode, bool) {
	entryName := directoryEntry.Name()
	if utils.IsServiceFile(directoryEntry) {
		return nil, false
	}
	if !treeBuilder.IncludeHidden && utils.IsHiddenName(entryName) {
		return nil, false
	}

	childPath := filepath.Join(parentNode.Path, entryName)
	relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
	if utils.ShouldIgnoreByPath(relativeChildPath, treeBuilder.IgnorePatterns) {
		return nil, false
	}

	childNode := &types.TreeNode{
		Path:  childPath,
		Name:  entryName,
		Depth: parentNode.Depth + 1,
	}

	// os.Stat follows symlinks so a link to a directory is walked like one.
	entryInfo, statError := os.Stat(childPath)
	if statError != nil {
		fmt.Fprintf(os.Stderr, warningStatPathFormat, childPath, statError)
		childNode.Type = types.NodeTypeFile
		childNode.Note = fmt.Sprintf(noteStatFailedFormat, statError)
		return childNode, false
	}

	childNode.LastModified = utils.FormatTimestamp(entryInfo.ModTime())
	if entryInfo.IsDir() {
		childNode.Type = types.NodeTypeDirectory
		withinDepthLimit := treeBuilder.MaxDepth == 0 || childNode.Depth < treeBuilder.MaxDepth
		return childNode, withinDepthLimit
	}

	childNode.Type = types.NodeTypeFile
	childNode.Size = utils.FormatFileSize(entryInfo.Size())
	childNode.SizeBytes = entryInfo.Size()
	return childNode, false
}

// classifyPathError maps operating system errors onto the tool's sentinel errors.
func classifyPathError(pathError error) error {
	if os.IsNotExist(pathError) {
		return fmt.Errorf("%w: %v", ErrPathNotFound, pathError)
	}
	if os.IsPermission(pathError) {
		return fmt.Errorf("%w: %v", ErrPathUnreadable, pathError)
	}
	return pathError
}

// applySummaries fills TotalFiles and TotalSize on every directory node,
// returning the file count and byte total of the subtree. Aggregation runs
// over the already-built tree, so the depth limit has been applied.
func applySummaries(node *types.TreeNode) (int, int64) {
	if node.Type != types.NodeTypeDirectory {
		return 1, node.SizeBytes
	}
	var totalFiles int
	var totalBytes int64
	for _, childNode := range node.Children {
		childFiles, childBytes := applySummaries(childNode)
		totalFiles += childFiles
		totalBytes += childBytes
	}
	node.TotalFiles = totalFiles
	node.SizeBytes = totalBytes
	node.TotalSize = utils.FormatFileSize(totalBytes)
	return totalFiles, totalBytes
}
