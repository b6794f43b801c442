package barrel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/barrel/internal/types"
	"github.com/temirov/barrel/internal/utils"
)

const (
	aggregatorFileMode = 0o644

	conflictPromptFormat      = "Exporter file '%s' already exists in %s. Do you want to overwrite it?"
	skippingFolderFormat      = "Skipping folder '%s' as requested."
	indexFallbackFormat       = "File '%s' exists and is not an export file. Using '%s' instead."
	writeFailedFormat         = "Failed to create exporter files in %s. Error: %v"
	readDirectoryFailedFormat = "Failed to read directory %s. Error: %v"
	completedFormat           = "Exporter files created recursively in %s"

	debugRootUnavailableFormat  = "nothing to generate for %s: %v"
	debugRootNotDirectoryFormat = "nothing to generate for %s: not a directory"
	debugSymlinkVisitedFormat   = "not following %s: target already visited"

	errorAbsolutePathFormat    = "resolving absolute path for %s: %w"
	errorPromptFormat          = "asking how to handle %s: %w"
	errorUnknownDecisionFormat = "unknown conflict decision %q"
)

// ErrMissingPrompter is returned by NewGenerator when no Prompter is supplied.
var ErrMissingPrompter = errors.New("barrel: a prompter is required")

// Prompter asks how to handle an existing aggregator file.
// Choose blocks until a decision is made or ctx is done.
// An empty decision with a nil error means the question was dismissed.
type Prompter interface {
	Choose(ctx context.Context, message string, options []types.Decision) (types.Decision, error)
}

// Notifier receives messages for the user. Calls are fire-and-forget.
type Notifier interface {
	Info(path string, message string)
	Warning(path string, message string)
	Error(path string, message string)
}

// Options configures a Generator.
type Options struct {
	Extension      string
	Skip           SkipFilter
	IgnorePatterns []string
}

// Generator writes aggregator files for directory trees.
type Generator struct {
	layout         Layout
	skipFilter     SkipFilter
	ignorePatterns []string
	prompter       Prompter
	notifier       Notifier
	logger         *zap.Logger
}

// NewGenerator builds a Generator. notifier and logger may be nil.
func NewGenerator(options Options, prompter Prompter, notifier Notifier, logger *zap.Logger) (*Generator, error) {
	if prompter == nil {
		return nil, ErrMissingPrompter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Generator{
		layout:         NewLayout(options.Extension, logger),
		skipFilter:     options.Skip,
		ignorePatterns: utils.DeduplicatePatterns(options.IgnorePatterns),
		prompter:       prompter,
		notifier:       notifier,
		logger:         logger,
	}, nil
}

// decisionContext carries conflict state for one top-level invocation.
type decisionContext struct {
	overwriteAll bool
}

// traversal holds the state of one Generate call.
type traversal struct {
	generator    *Generator
	ctx          context.Context
	root         string
	decisions    *decisionContext
	decidedNames map[string]string
	visited      map[string]struct{}
	report       *types.GenerationReport
}

// Generate writes aggregator files for rootDirectoryPath and every non-skipped directory below it.
// Children are written before their parent. A missing root, or a root that is not a directory, is a no-op
// reported with Completed set to false. Write failures are reported as notices and do not stop the walk;
// a failing Prompter does, and its error is returned.
func (generator *Generator) Generate(ctx context.Context, rootDirectoryPath string) (types.GenerationReport, error) {
	absoluteRoot, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return types.GenerationReport{Root: rootDirectoryPath}, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	report := types.GenerationReport{Root: absoluteRoot}

	rootInfo, rootStatError := os.Stat(absoluteRoot)
	if rootStatError != nil {
		generator.logger.Debug(fmt.Sprintf(debugRootUnavailableFormat, absoluteRoot, rootStatError))
		return report, nil
	}
	if !rootInfo.IsDir() {
		generator.logger.Debug(fmt.Sprintf(debugRootNotDirectoryFormat, absoluteRoot))
		return report, nil
	}

	run := &traversal{
		generator:    generator,
		ctx:          ctx,
		root:         absoluteRoot,
		decisions:    &decisionContext{},
		decidedNames: map[string]string{},
		visited:      map[string]struct{}{},
		report:       &report,
	}
	if visitError := run.visit(absoluteRoot); visitError != nil {
		return report, visitError
	}
	report.Completed = true
	run.info(absoluteRoot, fmt.Sprintf(completedFormat, absoluteRoot))
	return report, nil
}

// visit decides the aggregator of directoryPath, asks about conflicts, and writes the subtree.
func (run *traversal) visit(directoryPath string) error {
	if contextError := run.ctx.Err(); contextError != nil {
		return contextError
	}
	if run.isExcluded(directoryPath, filepath.Base(directoryPath)) {
		run.record(types.DirectoryResult{Path: directoryPath, State: types.DirectoryStateIgnored})
		return nil
	}
	if realPath, evalError := filepath.EvalSymlinks(directoryPath); evalError == nil {
		run.visited[realPath] = struct{}{}
	}

	layout := run.generator.layout
	targetName := layout.DefaultFileName(directoryPath)
	targetKind := types.AggregatorKindDefault
	defaultFilePath := filepath.Join(directoryPath, targetName)

	if pathExists(defaultFilePath) {
		if layout.IsAggregatorFile(defaultFilePath) {
			run.decidedNames[directoryPath] = targetName
			proceed, confirmError := run.confirmOverwrite(directoryPath, targetName)
			if confirmError != nil {
				return confirmError
			}
			if !proceed {
				run.record(types.DirectoryResult{Path: directoryPath, Target: defaultFilePath, Kind: targetKind, State: types.DirectoryStateSkipped})
				return nil
			}
		} else {
			indexName := layout.IndexFileName()
			run.info(directoryPath, fmt.Sprintf(indexFallbackFormat, targetName, indexName))
			targetName = indexName
			targetKind = types.AggregatorKindIndex
			run.decidedNames[directoryPath] = targetName

			indexFilePath := filepath.Join(directoryPath, indexName)
			if pathExists(indexFilePath) && layout.IsAggregatorFile(indexFilePath) {
				proceed, confirmError := run.confirmOverwrite(directoryPath, indexName)
				if confirmError != nil {
					return confirmError
				}
				if !proceed {
					run.record(types.DirectoryResult{Path: directoryPath, Target: indexFilePath, Kind: targetKind, State: types.DirectoryStateSkipped})
					return nil
				}
			}
		}
	}

	run.decidedNames[directoryPath] = targetName
	return run.writeAggregator(directoryPath, filepath.Join(directoryPath, targetName), targetKind)
}

// confirmOverwrite reports whether the existing aggregator fileName in directoryPath may be replaced.
func (run *traversal) confirmOverwrite(directoryPath string, fileName string) (bool, error) {
	if run.decisions.overwriteAll {
		return true, nil
	}
	message := fmt.Sprintf(conflictPromptFormat, fileName, directoryPath)
	decision, promptError := run.generator.prompter.Choose(run.ctx, message, types.ConflictDecisions)
	if promptError != nil {
		return false, fmt.Errorf(errorPromptFormat, directoryPath, promptError)
	}
	switch decision {
	case types.DecisionOverwriteAll:
		run.decisions.overwriteAll = true
		return true, nil
	case types.DecisionOverwrite:
		return true, nil
	case types.DecisionSkip:
		run.warning(directoryPath, fmt.Sprintf(skippingFolderFormat, filepath.Base(directoryPath)))
		return false, nil
	case "":
		return false, nil
	default:
		return false, fmt.Errorf(errorUnknownDecisionFormat, decision)
	}
}

// writeAggregator visits every subdirectory and then writes the aggregator of directoryPath to targetPath.
func (run *traversal) writeAggregator(directoryPath string, targetPath string, targetKind types.AggregatorKind) error {
	result := types.DirectoryResult{Path: directoryPath, Target: targetPath, Kind: targetKind}

	subdirectories, files, listError := run.listEntries(directoryPath)
	if listError != nil {
		run.fail(directoryPath, fmt.Sprintf(readDirectoryFailedFormat, directoryPath, listError))
		result.State = types.DirectoryStateFailed
		run.record(result)
		return nil
	}

	for _, subdirectoryPath := range subdirectories {
		if visitError := run.visit(subdirectoryPath); visitError != nil {
			return visitError
		}
	}

	lines := run.generator.layout.exportLines(directoryPath, subdirectories, files, run.aggregatorName)
	content := strings.Join(lines, exportLineJoiner)
	if writeError := os.WriteFile(targetPath, []byte(content), aggregatorFileMode); writeError != nil {
		run.fail(directoryPath, fmt.Sprintf(writeFailedFormat, directoryPath, writeError))
		result.State = types.DirectoryStateFailed
		run.record(result)
		return nil
	}

	result.State = types.DirectoryStateWritten
	result.Exports = len(lines)
	run.record(result)
	return nil
}

// listEntries returns the non-excluded subdirectories and candidate source files of directoryPath, sorted by name.
// Symlinked directories are followed unless their target was already visited in this run.
func (run *traversal) listEntries(directoryPath string) ([]string, []string, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, nil, readError
	}

	var subdirectories []string
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		entryPath := filepath.Join(directoryPath, entryName)
		isSymlink := directoryEntry.Type()&fs.ModeSymlink != 0
		if !directoryEntry.IsDir() && !(isSymlink && isDirectory(entryPath)) {
			continue
		}
		if run.isExcluded(entryPath, entryName) {
			run.record(types.DirectoryResult{Path: entryPath, State: types.DirectoryStateIgnored})
			continue
		}
		if isSymlink && run.alreadyVisited(entryPath) {
			run.generator.logger.Debug(fmt.Sprintf(debugSymlinkVisitedFormat, entryPath))
			run.record(types.DirectoryResult{Path: entryPath, State: types.DirectoryStateIgnored})
			continue
		}
		subdirectories = append(subdirectories, entryPath)
	}

	candidates, candidatesError := run.generator.layout.CandidateFiles(directoryPath, run.generator.skipFilter)
	if candidatesError != nil {
		return nil, nil, candidatesError
	}
	files := candidates[:0]
	for _, fileName := range candidates {
		if run.isExcluded(filepath.Join(directoryPath, fileName), fileName) {
			continue
		}
		files = append(files, fileName)
	}
	return subdirectories, files, nil
}

// alreadyVisited reports whether the target of the symlink at entryPath was entered earlier in this run.
// Unresolvable links count as visited so they are never entered.
func (run *traversal) alreadyVisited(entryPath string) bool {
	realPath, evalError := filepath.EvalSymlinks(entryPath)
	if evalError != nil {
		return true
	}
	_, visited := run.visited[realPath]
	return visited
}

// isExcluded applies the skip filter to name and the ignore patterns to the path relative to the root.
func (run *traversal) isExcluded(entryPath string, name string) bool {
	if run.generator.skipFilter.ShouldSkip(name) {
		return true
	}
	if len(run.generator.ignorePatterns) == 0 {
		return false
	}
	return utils.ShouldIgnoreByPath(utils.RelativePathOrSelf(entryPath, run.root), run.generator.ignorePatterns)
}

// aggregatorName returns the name decided while visiting subdirectoryPath.
func (run *traversal) aggregatorName(subdirectoryPath string) string {
	if decidedName, decided := run.decidedNames[subdirectoryPath]; decided {
		return decidedName
	}
	return run.generator.layout.ResolveAggregatorName(subdirectoryPath)
}

func (run *traversal) record(result types.DirectoryResult) {
	run.report.Directories = append(run.report.Directories, result)
}

func (run *traversal) info(path string, message string) {
	run.notice(types.NoticeLevelInfo, path, message)
	run.generator.notifier.Info(path, message)
}

func (run *traversal) warning(path string, message string) {
	run.notice(types.NoticeLevelWarning, path, message)
	run.generator.notifier.Warning(path, message)
}

func (run *traversal) fail(path string, message string) {
	run.notice(types.NoticeLevelError, path, message)
	run.generator.notifier.Error(path, message)
}

func (run *traversal) notice(level types.NoticeLevel, path string, message string) {
	run.report.Notices = append(run.report.Notices, types.Notice{Level: level, Path: path, Message: message})
}

type discardNotifier struct{}

func (discardNotifier) Info(string, string)    {}
func (discardNotifier) Warning(string, string) {}
func (discardNotifier) Error(string, string)   {}
