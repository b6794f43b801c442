package barrel

import (
	"os"
	"path/filepath"
)

// CandidateFiles lists the Dart sources of directoryPath that belong in its aggregator, using the default skip filter.
func CandidateFiles(directoryPath string) ([]string, error) {
	return defaultLayout.CandidateFiles(directoryPath, DefaultSkipFilter())
}

// CandidateFiles lists the direct regular files of directoryPath that carry the layout's extension, are not
// skipped by filter, and are not one of the directory's own aggregator names. Names are returned sorted.
func (layout Layout) CandidateFiles(directoryPath string, filter SkipFilter) ([]string, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, readError
	}
	var files []string
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if directoryEntry.IsDir() || filter.ShouldSkip(entryName) {
			continue
		}
		if layout.isCandidateFile(directoryPath, entryName) {
			files = append(files, entryName)
		}
	}
	return files, nil
}

// isCandidateFile applies the extension, aggregator-name and regular-file rules to one directory entry.
func (layout Layout) isCandidateFile(directoryPath string, entryName string) bool {
	if filepath.Ext(entryName) != layout.extension {
		return false
	}
	if entryName == layout.DefaultFileName(directoryPath) || entryName == layout.IndexFileName() {
		return false
	}
	entryInfo, statError := os.Stat(filepath.Join(directoryPath, entryName))
	return statError == nil && entryInfo.Mode().IsRegular()
}
