// Package output renders generation reports as raw text, JSON, or XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/temirov/barrel/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlRootElement = "reports"

	rawDirectoryLineFormat = "%s\t%s\n"
	rawSummaryLineFormat   = "written: %d, skipped: %d, failed: %d\n"

	unsupportedFormatMessage = "unsupported output format %q"
)

// Render dispatches to the renderer for format.
func Render(format string, reports []types.GenerationReport) (string, error) {
	switch format {
	case types.FormatRaw:
		return RenderRaw(reports), nil
	case types.FormatJSON:
		return RenderJSON(reports)
	case types.FormatXML:
		return RenderXML(reports)
	default:
		return "", fmt.Errorf(unsupportedFormatMessage, format)
	}
}

// RenderRaw prints one "<state>\t<file>" line per directory and a summary line per report.
// Directories without a target, such as ignored ones, are listed by their own path.
func RenderRaw(reports []types.GenerationReport) string {
	var buffer bytes.Buffer
	for _, report := range reports {
		for _, directory := range report.Directories {
			displayPath := directory.Target
			if displayPath == "" {
				displayPath = directory.Path
			}
			fmt.Fprintf(&buffer, rawDirectoryLineFormat, directory.State, displayPath)
		}
		fmt.Fprintf(&buffer, rawSummaryLineFormat,
			report.Count(types.DirectoryStateWritten),
			report.Count(types.DirectoryStateSkipped),
			report.Count(types.DirectoryStateFailed),
		)
	}
	return buffer.String()
}

// RenderJSON marshals the reports as an indented JSON array.
func RenderJSON(reports []types.GenerationReport) (string, error) {
	if reports == nil {
		reports = []types.GenerationReport{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(reports, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderXML marshals the reports as an indented XML document.
func RenderXML(reports []types.GenerationReport) (string, error) {
	wrapper := struct {
		XMLName xml.Name                 `xml:""`
		Reports []types.GenerationReport `xml:"report"`
	}{
		XMLName: xml.Name{Local: xmlRootElement},
		Reports: reports,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}
