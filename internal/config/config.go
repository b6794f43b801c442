// Package config loads application configuration and parses ignore files into slices of patterns.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/barrel/internal/utils"
)

const (
	commentPrefix  = "#"
	negationPrefix = "!"
	hiddenPrefix   = "."
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns. A missing file yields no patterns.
// Blank lines, comments, and negated patterns are dropped.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates ignore patterns.
// Patterns from utils.IgnoreFileName, and from utils.GitIgnoreFileName when useGitignore is true, found in a nested
// directory are prefixed with that directory's path relative to rootDirectoryPath. Hidden directories are not walked
// since generation never enters them. The provided exclusionPatterns are appended to the result.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, exclusionPatterns []string, useGitignore bool, useIgnoreFile bool) ([]string, error) {
	var aggregatedPatterns []string

	collect := func(currentDirectoryPath string, fileName string, prefix string) error {
		patterns, loadError := LoadIgnoreFilePatterns(filepath.Join(currentDirectoryPath, fileName))
		if loadError != nil {
			return fmt.Errorf("loading %s from %s: %w", fileName, currentDirectoryPath, loadError)
		}
		for _, pattern := range patterns {
			aggregatedPatterns = append(aggregatedPatterns, prefix+strings.TrimPrefix(pattern, "/"))
		}
		return nil
	}

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if currentDirectoryPath != rootDirectoryPath && strings.HasPrefix(directoryEntry.Name(), hiddenPrefix) {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		prefix := ""
		if relativeDirectory != "." {
			prefix = relativeDirectory + "/"
		}

		if useIgnoreFile {
			if collectError := collect(currentDirectoryPath, utils.IgnoreFileName, prefix); collectError != nil {
				return collectError
			}
		}
		if useGitignore {
			if collectError := collect(currentDirectoryPath, utils.GitIgnoreFileName, prefix); collectError != nil {
				return collectError
			}
		}
		return nil
	}

	if useIgnoreFile || useGitignore {
		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(aggregatedPatterns)

	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	return deduplicatedPatterns, nil
}
