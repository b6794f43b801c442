package barrel

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultExtension is the source extension aggregated when none is configured.
	DefaultExtension = ".dart"

	indexBaseName     = "index"
	exportLineFormat  = "export '%s';"
	exportLineJoiner  = "\n"
	partOfPatternHead = `(?i)part of ['"].+`
	partOfPatternTail = `['"];`

	debugReadFailedFormat = "unable to read %s: %v"
)

var exportStatementPattern = regexp.MustCompile(`export ['"](.+?)['"];`)

// Layout names and recognizes aggregator files for one source extension.
type Layout struct {
	extension     string
	partOfPattern *regexp.Regexp
	logger        *zap.Logger
}

// NewLayout builds a Layout for extension. A missing leading dot is added.
// Read failures during detection are logged at debug level on logger.
func NewLayout(extension string, logger *zap.Logger) Layout {
	normalizedExtension := strings.TrimSpace(extension)
	if normalizedExtension == "" {
		normalizedExtension = DefaultExtension
	}
	if !strings.HasPrefix(normalizedExtension, ".") {
		normalizedExtension = "." + normalizedExtension
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Layout{
		extension:     normalizedExtension,
		partOfPattern: regexp.MustCompile(partOfPatternHead + regexp.QuoteMeta(normalizedExtension) + partOfPatternTail),
		logger:        logger,
	}
}

var defaultLayout = NewLayout(DefaultExtension, nil)

// Extension returns the source extension including the leading dot.
func (layout Layout) Extension() string {
	return layout.extension
}

// DefaultFileName returns the aggregator name derived from the directory's own name.
func (layout Layout) DefaultFileName(directoryPath string) string {
	return filepath.Base(directoryPath) + layout.extension
}

// IndexFileName returns the fallback aggregator name.
func (layout Layout) IndexFileName() string {
	return indexBaseName + layout.extension
}

// IsAggregatorContent reports whether content holds at least one export statement.
func IsAggregatorContent(content string) bool {
	return exportStatementPattern.MatchString(content)
}

// IsAggregatorFile reports whether the file at filePath holds at least one export statement.
// A blank file is the aggregator of a directory with nothing to export. Unreadable files are not aggregators.
func (layout Layout) IsAggregatorFile(filePath string) bool {
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		layout.logger.Debug(fmt.Sprintf(debugReadFailedFormat, filePath, readError))
		return false
	}
	if strings.TrimSpace(string(content)) == "" {
		return true
	}
	return IsAggregatorContent(string(content))
}

// ContainsPartOfDirective reports whether the file at filePath declares itself part of another library.
// Unreadable files do not.
func (layout Layout) ContainsPartOfDirective(filePath string) bool {
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		layout.logger.Debug(fmt.Sprintf(debugReadFailedFormat, filePath, readError))
		return false
	}
	return layout.partOfPattern.Match(content)
}

// ResolveAggregatorName returns the file name that holds, or will hold, the aggregator of directoryPath.
// The default name wins unless it exists with content but without any export statement, in which case the
// index name is used.
func (layout Layout) ResolveAggregatorName(directoryPath string) string {
	defaultFileName := layout.DefaultFileName(directoryPath)
	defaultFilePath := filepath.Join(directoryPath, defaultFileName)
	if !pathExists(defaultFilePath) {
		return defaultFileName
	}
	if layout.IsAggregatorFile(defaultFilePath) {
		return defaultFileName
	}
	return layout.IndexFileName()
}

// GenerateContent renders the aggregator text for directoryPath.
// Subdirectory exports come first, then local file exports; lines are joined by a newline without a trailing one.
func (layout Layout) GenerateContent(directoryPath string, subdirectories []string, files []string) string {
	return strings.Join(layout.exportLines(directoryPath, subdirectories, files, layout.ResolveAggregatorName), exportLineJoiner)
}

// exportLines builds one export statement per subdirectory and per file that is not a part-of fragment.
// aggregatorName supplies the aggregator file name of each subdirectory.
func (layout Layout) exportLines(directoryPath string, subdirectories []string, files []string, aggregatorName func(string) string) []string {
	lines := make([]string, 0, len(subdirectories)+len(files))
	for _, subdirectoryPath := range subdirectories {
		relativePath, relativeError := filepath.Rel(directoryPath, subdirectoryPath)
		if relativeError != nil {
			relativePath = subdirectoryPath
		}
		exportTarget := filepath.ToSlash(relativePath) + "/" + aggregatorName(subdirectoryPath)
		lines = append(lines, fmt.Sprintf(exportLineFormat, exportTarget))
	}
	for _, fileName := range files {
		if layout.ContainsPartOfDirective(filepath.Join(directoryPath, fileName)) {
			continue
		}
		lines = append(lines, fmt.Sprintf(exportLineFormat, fileName))
	}
	return lines
}

// ResolveAggregatorName resolves the aggregator name of directoryPath for Dart sources.
func ResolveAggregatorName(directoryPath string) string {
	return defaultLayout.ResolveAggregatorName(directoryPath)
}

// GenerateContent renders Dart aggregator text for directoryPath.
func GenerateContent(directoryPath string, subdirectories []string, files []string) string {
	return defaultLayout.GenerateContent(directoryPath, subdirectories, files)
}

func pathExists(path string) bool {
	_, statError := os.Stat(path)
	return statError == nil
}

func isDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}
