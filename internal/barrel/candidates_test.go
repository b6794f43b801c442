package barrel_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/barrel/internal/barrel"
)

// TestCandidateFiles verifies the local file filter.
func TestCandidateFiles(testingHandle *testing.T) {
	directoryPath := filepath.Join(testingHandle.TempDir(), "widgets")
	for fileName, content := range map[string]string{
		"widgets.dart":       "export 'button.dart';",
		"index.dart":         "export 'button.dart';",
		"button.dart":        "class Button {}",
		"card.dart":          "class Card {}",
		"card.g.dart":        "part of 'card.dart';",
		".secret.dart":       "class Secret {}",
		"notes.txt":          "not a source",
		"nested/inner.dart":  "class Inner {}",
		"l10n/messages.dart": "class Messages {}",
	} {
		writeTestFile(testingHandle, filepath.Join(directoryPath, fileName), content)
	}
	if symlinkError := os.Symlink(filepath.Join(directoryPath, "nested"), filepath.Join(directoryPath, "linked.dart")); symlinkError != nil {
		testingHandle.Fatalf("failed to create symlink: %v", symlinkError)
	}

	files, candidateError := barrel.CandidateFiles(directoryPath)
	if candidateError != nil {
		testingHandle.Fatalf("unexpected error: %v", candidateError)
	}
	expected := []string{"button.dart", "card.dart"}
	if !reflect.DeepEqual(files, expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, files)
	}
}

// TestCandidateFilesMissingDirectory verifies that read errors are returned.
func TestCandidateFilesMissingDirectory(testingHandle *testing.T) {
	if _, candidateError := barrel.CandidateFiles(filepath.Join(testingHandle.TempDir(), "missing")); candidateError == nil {
		testingHandle.Fatalf("expected an error for a missing directory")
	}
}
