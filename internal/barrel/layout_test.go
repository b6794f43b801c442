package barrel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/barrel/internal/barrel"
)

const (
	widgetFolderName = "mywidget"
	widgetClass      = "class MyWidget extends StatelessWidget {\n  @override\n  Widget build(BuildContext context) {\n    return Container();\n  }\n}"
)

// writeTestFile creates parent directories and a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// makeTestDirectory creates a directory, failing the test on error.
func makeTestDirectory(testingHandle *testing.T, directoryPath string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", directoryPath, makeDirError)
	}
}

// readTestFile returns the content of filePath, failing the test on error.
func readTestFile(testingHandle *testing.T, filePath string) string {
	testingHandle.Helper()
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		testingHandle.Fatalf("failed to read %s: %v", filePath, readError)
	}
	return string(content)
}

// TestGenerateContentBareFolderNames verifies exact output for folders given without a common parent.
func TestGenerateContentBareFolderNames(testingHandle *testing.T) {
	result := barrel.GenerateContent("testFolder", []string{"subfolder1", "subfolder2"}, []string{"file1.dart", "file2.dart"})

	expected := "" +
		"export '../subfolder1/subfolder1.dart';\n" +
		"export '../subfolder2/subfolder2.dart';\n" +
		"export 'file1.dart';\n" +
		"export 'file2.dart';"
	if result != expected {
		testingHandle.Fatalf("unexpected content:\n%s\nwant:\n%s", result, expected)
	}
}

// TestGenerateContentEmptyGroups verifies that missing groups leave no stray newlines.
func TestGenerateContentEmptyGroups(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	testCases := []struct {
		name           string
		subdirectories []string
		files          []string
		expected       string
	}{
		{name: "files_only", files: []string{"a.dart", "b.dart"}, expected: "export 'a.dart';\nexport 'b.dart';"},
		{name: "subdirectories_only", subdirectories: []string{filepath.Join(rootDirectory, "models")}, expected: "export 'models/models.dart';"},
		{name: "nothing", expected: ""},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			result := barrel.GenerateContent(rootDirectory, testCase.subdirectories, testCase.files)
			if result != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

// TestGenerateContentOmitsPartOfFiles verifies that library fragments are never exported.
func TestGenerateContentOmitsPartOfFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "library.dart"), "part 'fragment.dart';\nclass Library {}")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "fragment.dart"), "part of 'library.dart';\nclass Fragment {}")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "shouting.dart"), "PART OF \"library.dart\";")

	result := barrel.GenerateContent(rootDirectory, nil, []string{"fragment.dart", "library.dart", "shouting.dart"})
	if result != "export 'library.dart';" {
		testingHandle.Fatalf("unexpected content %q", result)
	}
}

// TestResolveAggregatorName verifies default and index naming rules.
func TestResolveAggregatorName(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		folderName    string
		defaultFile   string
		indexFile     string
		createDefault bool
		createIndex   bool
		expected      string
	}{
		{name: "no_file_uses_default", folderName: widgetFolderName, expected: "mywidget.dart"},
		{name: "blank_file_keeps_default", folderName: widgetFolderName, createDefault: true, defaultFile: "", expected: "mywidget.dart"},
		{name: "export_file_keeps_default", folderName: widgetFolderName, createDefault: true, defaultFile: "export 'button.dart';\nexport 'card.dart';", expected: "mywidget.dart"},
		{name: "class_file_uses_index", folderName: widgetFolderName, createDefault: true, defaultFile: widgetClass, expected: "index.dart"},
		{name: "class_file_with_existing_index", folderName: widgetFolderName, createDefault: true, defaultFile: "class MyWidget {}", createIndex: true, indexFile: "export 'other.dart';", expected: "index.dart"},
		{name: "single_quotes", folderName: "widgets", createDefault: true, defaultFile: "export 'button.dart';", expected: "widgets.dart"},
		{name: "double_quotes", folderName: "widgets", createDefault: true, defaultFile: `export "button.dart";`, expected: "widgets.dart"},
		{name: "imports_are_not_exports", folderName: "myservice", createDefault: true, defaultFile: "import 'package:flutter/material.dart';\n\nclass MyService {}", expected: "index.dart"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			folderPath := filepath.Join(t.TempDir(), testCase.folderName)
			makeTestDirectory(t, folderPath)
			if testCase.createDefault {
				writeTestFile(t, filepath.Join(folderPath, testCase.folderName+".dart"), testCase.defaultFile)
			}
			if testCase.createIndex {
				writeTestFile(t, filepath.Join(folderPath, "index.dart"), testCase.indexFile)
			}
			if result := barrel.ResolveAggregatorName(folderPath); result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

// TestIsAggregatorContent verifies the export heuristic.
func TestIsAggregatorContent(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "single_quoted_export", content: "export 'a.dart';", expected: true},
		{name: "double_quoted_export", content: `export "a.dart";`, expected: true},
		{name: "export_among_code", content: "library foo;\n\nexport 'src/foo.dart';\n", expected: true},
		{name: "import_only", content: "import 'a.dart';", expected: false},
		{name: "missing_semicolon", content: "export 'a.dart'", expected: false},
		{name: "empty", content: "", expected: false},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			if result := barrel.IsAggregatorContent(testCase.content); result != testCase.expected {
				t.Fatalf("IsAggregatorContent(%q) = %t, want %t", testCase.content, result, testCase.expected)
			}
		})
	}
}

// TestNewLayoutNormalizesExtension verifies extension handling for other source languages.
func TestNewLayoutNormalizesExtension(testingHandle *testing.T) {
	testCases := []struct {
		name      string
		extension string
		expected  string
	}{
		{name: "empty_defaults_to_dart", extension: "", expected: ".dart"},
		{name: "missing_dot_is_added", extension: "ts", expected: ".ts"},
		{name: "dot_is_kept", extension: ".ts", expected: ".ts"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			layout := barrel.NewLayout(testCase.extension, nil)
			if layout.Extension() != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, layout.Extension())
			}
			if layout.IndexFileName() != "index"+testCase.expected {
				t.Fatalf("unexpected index name %s", layout.IndexFileName())
			}
			if layout.DefaultFileName("/src/models") != "models"+testCase.expected {
				t.Fatalf("unexpected default name %s", layout.DefaultFileName("/src/models"))
			}
		})
	}
}

// TestLayoutPartOfDirectiveUsesExtension verifies that part-of detection follows the configured extension.
func TestLayoutPartOfDirectiveUsesExtension(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	fragmentPath := filepath.Join(rootDirectory, "fragment.dart")
	writeTestFile(testingHandle, fragmentPath, "part of 'library.dart';")

	if !barrel.NewLayout(".dart", nil).ContainsPartOfDirective(fragmentPath) {
		testingHandle.Fatalf("expected dart fragment to be detected")
	}
	if barrel.NewLayout(".ts", nil).ContainsPartOfDirective(fragmentPath) {
		testingHandle.Fatalf("expected no detection for a different extension")
	}
	if barrel.NewLayout(".dart", nil).ContainsPartOfDirective(filepath.Join(rootDirectory, "missing.dart")) {
		testingHandle.Fatalf("expected unreadable files to be treated as regular sources")
	}
}
