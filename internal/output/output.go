package output

import (
	"fmt"
	"io"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Document is a renderable command result.
type Document interface {
	// Table returns the tabular projection of the document.
	Table() (header []string, rows [][]string)
}

// Writer renders a document in one format.
type Writer interface {
	Write(w io.Writer, doc Document) error
}

// Get returns a writer for the given format. color only affects table
// output.
func Get(format string, color bool) (Writer, error) {
	switch format {
	case FormatTable, "":
		return &TableWriter{Color: color}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	case FormatYAML:
		return &YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
