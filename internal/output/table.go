package output

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableWriter renders documents as bordered tables.
type TableWriter struct {
	Color bool
}

func (t *TableWriter) Write(w io.Writer, doc Document) error {
	header, rows := doc.Table()

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	if t.Color {
		tbl.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	tbl.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		tbl.AppendRow(row)
	}

	tbl.Render()
	return nil
}
