// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stupeter/strct/internal/commands"
	"github.com/stupeter/strct/internal/config"
	"github.com/stupeter/strct/internal/output"
	"github.com/stupeter/strct/internal/services/clipboard"
	"github.com/stupeter/strct/internal/types"
	"github.com/stupeter/strct/internal/utils"
)

const (
	exclusionFlagName   = "e"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	includeGitFlagName  = "git"
	hiddenFlagName      = "hidden"
	maxDepthFlagName    = "max-depth"
	maxDepthFlagShort   = "d"
	summaryFlagName     = "summary"
	formatFlagName      = "format"
	outputFileFlagName  = "output"
	outputFileFlagShort = "o"
	copyFlagName        = "copy"
	globalFlagName      = "global"
	forceFlagName       = "force"
	versionFlagName     = "version"
	versionTemplate     = "strct version: %s\n"
	defaultPath         = "."

	rootUse              = "strct"
	rootShortDescription = "strct command line interface"
	rootLongDescription  = `strct inspects project structure.
It renders directory trees as glyph trees, markdown bullets, JSON, or XML,
and fits least-squares lines through x,y sample data.
Use --version to print the application version.`
	versionFlagDescription = "display application version"

	treeUse              = "tree [paths...]"
	fitUse               = "fit <datafile>"
	initUse              = "init"
	treeAlias            = "t"
	fitAlias             = "f"
	treeShortDescription = "display directory tree (" + treeAlias + ")"
	fitShortDescription  = "least-squares fit over x,y data (" + fitAlias + ")"
	initShortDescription = "write a default configuration file"

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `List directories and files for one or more paths.
Hidden entries are skipped unless --hidden is set, and entries matching
ignore patterns from .ignore/.gitignore or -e are excluded.
Use --format to select raw, markdown, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree as markdown bullets, three levels deep
  strct tree --format markdown --max-depth 3 .

  # Exclude the vendor directory and write the tree to a file
  strct tree -e vendor -o strct.md .`

	// fitLongDescription provides detailed help for the fit command.
	fitLongDescription = `Fit a least-squares line through the x,y samples in a data file.
Each line holds one comma-separated sample; blank lines are skipped.
Use --format to select raw, json, or xml output.`
	// fitUsageExample demonstrates fit command usage.
	fitUsageExample = `  # Print slope, intercept, sensitivity, and nonlinearity error
  strct fit data/example_data.txt

  # Emit the fit as JSON
  strct fit --format json data/example_data.txt`

	// initLongDescription provides detailed help for the init command.
	initLongDescription = `Write the default configuration template.
The file lands in the working directory, or under the home directory
when --global is set. Use --force to overwrite an existing file.`

	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	hiddenFlagDescription           = "include hidden entries"
	maxDepthFlagDescription         = "limit traversal depth (0 = unlimited)"
	summaryFlagDescription          = "include file counts and sizes"
	formatFlagDescription           = "output format"
	outputFileFlagDescription       = "write output to file instead of stdout"
	copyFlagDescription             = "copy output to the system clipboard"
	globalFlagDescription           = "initialize the global configuration"
	forceFlagDescription            = "overwrite an existing configuration file"

	invalidFormatMessage       = "invalid format value '%s'"
	configurationWrittenFormat = "configuration written to %s\n"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
	// errorWriteOutputFormat reports failure to write the rendered output file.
	errorWriteOutputFormat = "writing output to %s: %w"
	// errorClipboardFormat reports failure to copy output to the clipboard.
	errorClipboardFormat = "copying output to clipboard: %w"
	// errorLoadConfigurationFormat reports a configuration loading failure.
	errorLoadConfigurationFormat = "loading configuration: %w"
)

// isSupportedTreeFormat reports whether the provided tree format is recognized.
func isSupportedTreeFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatMarkdown, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// isSupportedFitFormat reports whether the provided fit format is recognized.
func isSupportedFitFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the strct application.
func Execute() error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(),
		createFitCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

// outputOptions stores configuration for result emission flags.
type outputOptions struct {
	format          string
	outputFilePath  string
	copyToClipboard bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

// addOutputFlags registers emission-related flags on the command.
func addOutputFlags(command *cobra.Command, options *outputOptions, defaultFormat string) {
	command.Flags().StringVar(&options.format, formatFlagName, defaultFormat, formatFlagDescription)
	command.Flags().StringVarP(&options.outputFilePath, outputFileFlagName, outputFileFlagShort, "", outputFileFlagDescription)
	registerBooleanFlag(command.Flags(), &options.copyToClipboard, copyFlagName, false, copyFlagDescription)
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand() *cobra.Command {
	var pathConfiguration pathOptions
	var outputConfiguration outputOptions
	var maxDepth int
	var includeHidden bool
	var summaryEnabled bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{})
			if configurationError != nil {
				return fmt.Errorf(errorLoadConfigurationFormat, configurationError)
			}
			applyTreeConfigurationDefaults(command, applicationConfiguration.Tree, &pathConfiguration, &outputConfiguration, &maxDepth, &includeHidden, &summaryEnabled)

			outputFormatLower := strings.ToLower(outputConfiguration.format)
			if !isSupportedTreeFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormatLower)
			}
			outputConfiguration.format = outputFormatLower
			return runTree(arguments, pathConfiguration, outputConfiguration, maxDepth, includeHidden, summaryEnabled)
		},
	}

	addPathFlags(treeCommand, &pathConfiguration)
	addOutputFlags(treeCommand, &outputConfiguration, types.FormatRaw)
	treeCommand.Flags().IntVarP(&maxDepth, maxDepthFlagName, maxDepthFlagShort, 0, maxDepthFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &summaryEnabled, summaryFlagName, false, summaryFlagDescription)
	return treeCommand
}

// applyTreeConfigurationDefaults overlays configuration file values onto flags
// the invocation left untouched.
func applyTreeConfigurationDefaults(command *cobra.Command, treeConfiguration config.TreeCommandConfiguration, pathConfiguration *pathOptions, outputConfiguration *outputOptions, maxDepth *int, includeHidden *bool, summaryEnabled *bool) {
	flagSet := command.Flags()
	if !flagSet.Changed(formatFlagName) && treeConfiguration.Format != "" {
		outputConfiguration.format = treeConfiguration.Format
	}
	if !flagSet.Changed(summaryFlagName) && treeConfiguration.Summary != nil {
		*summaryEnabled = *treeConfiguration.Summary
	}
	if !flagSet.Changed(maxDepthFlagName) && treeConfiguration.MaxDepth != nil {
		*maxDepth = *treeConfiguration.MaxDepth
	}
	if !flagSet.Changed(hiddenFlagName) && treeConfiguration.Hidden != nil {
		*includeHidden = *treeConfiguration.Hidden
	}
	if !flagSet.Changed(copyFlagName) && treeConfiguration.Clipboard != nil {
		outputConfiguration.copyToClipboard = *treeConfiguration.Clipboard
	}
	if !flagSet.Changed(exclusionFlagName) && len(treeConfiguration.Paths.Exclude) > 0 {
		pathConfiguration.exclusionPatterns = append([]string{}, treeConfiguration.Paths.Exclude...)
	}
	if !flagSet.Changed(noGitignoreFlagName) && treeConfiguration.Paths.UseGitignore != nil {
		pathConfiguration.disableGitignore = !*treeConfiguration.Paths.UseGitignore
	}
	if !flagSet.Changed(noIgnoreFlagName) && treeConfiguration.Paths.UseIgnoreFile != nil {
		pathConfiguration.disableIgnoreFile = !*treeConfiguration.Paths.UseIgnoreFile
	}
	if !flagSet.Changed(includeGitFlagName) && treeConfiguration.Paths.IncludeGit != nil {
		pathConfiguration.includeGit = *treeConfiguration.Paths.IncludeGit
	}
}

// runTree collects tree data for every requested root and emits the rendering.
// Roots are processed concurrently but rendered in argument order.
func runTree(inputPaths []string, pathConfiguration pathOptions, outputConfiguration outputOptions, maxDepth int, includeHidden bool, summaryEnabled bool) error {
	validatedPaths, validationError := resolveAndValidatePaths(inputPaths)
	if validationError != nil {
		return validationError
	}

	collectedNodes := make([]*types.TreeNode, len(validatedPaths))
	var collectionGroup errgroup.Group
	for pathIndex, pathInformation := range validatedPaths {
		pathIndex, pathInformation := pathIndex, pathInformation
		collectionGroup.Go(func() error {
			if !pathInformation.IsDir {
				collectedNodes[pathIndex] = fileRootNode(pathInformation.AbsolutePath)
				return nil
			}
			ignorePatterns, ignoreLoadError := config.LoadCombinedIgnorePatterns(
				pathInformation.AbsolutePath,
				pathConfiguration.exclusionPatterns,
				!pathConfiguration.disableGitignore,
				!pathConfiguration.disableIgnoreFile,
				pathConfiguration.includeGit,
			)
			if ignoreLoadError != nil {
				return ignoreLoadError
			}
			treeBuilder := &commands.TreeBuilder{
				MaxDepth:       maxDepth,
				IncludeHidden:  includeHidden,
				IgnorePatterns: ignorePatterns,
				IncludeSummary: summaryEnabled,
			}
			treeNodes, buildError := treeBuilder.GetTreeData(pathInformation.AbsolutePath)
			if buildError != nil {
				return buildError
			}
			collectedNodes[pathIndex] = treeNodes[0]
			return nil
		})
	}
	if collectionError := collectionGroup.Wait(); collectionError != nil {
		return collectionError
	}

	renderedText, renderError := renderTreeNodes(collectedNodes, outputConfiguration.format, summaryEnabled)
	if renderError != nil {
		return renderError
	}
	return emitOutput(renderedText, outputConfiguration)
}

// fileRootNode wraps a plain file argument in a single tree node.
func fileRootNode(absolutePath string) *types.TreeNode {
	fileNode := &types.TreeNode{
		Path: absolutePath,
		Name: filepath.Base(absolutePath),
		Type: types.NodeTypeFile,
	}
	if fileInformation, statError := os.Stat(absolutePath); statError == nil {
		fileNode.Size = utils.FormatFileSize(fileInformation.Size())
		fileNode.SizeBytes = fileInformation.Size()
		fileNode.LastModified = utils.FormatTimestamp(fileInformation.ModTime())
	}
	return fileNode
}

// renderTreeNodes renders collected nodes in the requested format.
func renderTreeNodes(collectedNodes []*types.TreeNode, outputFormat string, summaryEnabled bool) (string, error) {
	switch outputFormat {
	case types.FormatRaw:
		return output.RenderTreeRaw(collectedNodes, summaryEnabled), nil
	case types.FormatMarkdown:
		return output.RenderTreeMarkdown(collectedNodes), nil
	case types.FormatJSON:
		return output.RenderJSON(treeNodesAsItems(collectedNodes))
	case types.FormatXML:
		return output.RenderXML(treeNodesAsItems(collectedNodes))
	default:
		return "", fmt.Errorf(invalidFormatMessage, outputFormat)
	}
}

func treeNodesAsItems(collectedNodes []*types.TreeNode) []interface{} {
	items := make([]interface{}, 0, len(collectedNodes))
	for _, collectedNode := range collectedNodes {
		items = append(items, collectedNode)
	}
	return items
}

// createFitCommand returns the fit subcommand.
func createFitCommand() *cobra.Command {
	var outputConfiguration outputOptions

	fitCommand := &cobra.Command{
		Use:     fitUse,
		Aliases: []string{fitAlias},
		Short:   fitShortDescription,
		Long:    fitLongDescription,
		Example: fitUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{})
			if configurationError != nil {
				return fmt.Errorf(errorLoadConfigurationFormat, configurationError)
			}
			flagSet := command.Flags()
			if !flagSet.Changed(formatFlagName) && applicationConfiguration.Fit.Format != "" {
				outputConfiguration.format = applicationConfiguration.Fit.Format
			}
			if !flagSet.Changed(copyFlagName) && applicationConfiguration.Fit.Clipboard != nil {
				outputConfiguration.copyToClipboard = *applicationConfiguration.Fit.Clipboard
			}

			outputFormatLower := strings.ToLower(outputConfiguration.format)
			if !isSupportedFitFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormatLower)
			}
			outputConfiguration.format = outputFormatLower
			return runFit(arguments[0], outputConfiguration)
		},
	}

	addOutputFlags(fitCommand, &outputConfiguration, types.FormatRaw)
	return fitCommand
}

// runFit fits the samples in the provided data file and emits the rendering.
func runFit(dataFilePath string, outputConfiguration outputOptions) error {
	fitResult, fitError := commands.GetFitData(dataFilePath)
	if fitError != nil {
		return fitError
	}

	var renderedText string
	var renderError error
	switch outputConfiguration.format {
	case types.FormatRaw:
		renderedText = output.RenderFitRaw(fitResult)
	case types.FormatJSON:
		renderedText, renderError = output.RenderJSON([]interface{}{fitResult})
	case types.FormatXML:
		renderedText, renderError = output.RenderXML([]interface{}{fitResult})
	default:
		renderError = fmt.Errorf(invalidFormatMessage, outputConfiguration.format)
	}
	if renderError != nil {
		return renderError
	}
	return emitOutput(renderedText, outputConfiguration)
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var initializeGlobal bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if initializeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(configurationWrittenFormat, destinationPath)
			return nil
		},
	}

	registerBooleanFlag(initCommand.Flags(), &initializeGlobal, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveAndValidatePaths converts input paths to absolute paths, checks
// existence, determines if they are files or directories, and removes
// duplicates while preserving argument order.
func resolveAndValidatePaths(inputPaths []string) ([]types.ValidatedPath, error) {
	uniquePaths := make(map[string]struct{})
	var validatedPaths []types.ValidatedPath
	for _, inputPath := range inputPaths {
		absolutePath, errorGettingAbsolute := filepath.Abs(inputPath)
		if errorGettingAbsolute != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, errorGettingAbsolute)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, exists := uniquePaths[cleanPath]; exists {
			continue
		}
		fileInformation, errorStat := os.Stat(cleanPath)
		if errorStat != nil {
			if os.IsNotExist(errorStat) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, errorStat)
		}
		uniquePaths[cleanPath] = struct{}{}
		validatedPaths = append(validatedPaths, types.ValidatedPath{
			AbsolutePath: cleanPath,
			IsDir:        fileInformation.IsDir(),
		})
	}
	if len(validatedPaths) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return validatedPaths, nil
}

// emitOutput delivers rendered text to stdout or the requested file, and
// copies it to the system clipboard when asked.
func emitOutput(renderedText string, outputConfiguration outputOptions) error {
	if !strings.HasSuffix(renderedText, "\n") {
		renderedText += "\n"
	}
	if outputConfiguration.copyToClipboard {
		if copyError := clipboard.NewService().Copy(renderedText); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
	}
	if outputConfiguration.outputFilePath != "" {
		if writeError := os.WriteFile(outputConfiguration.outputFilePath, []byte(renderedText), 0o644); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, outputConfiguration.outputFilePath, writeError)
		}
		return nil
	}
	fmt.Print(renderedText)
	return nil
}
