package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Grid renders a header and rows as a light-framed grid. Table views whose
// shape is a plain relation rather than module groups render through this
// instead of ModuleTable.
func Grid(header []string, rows [][]string) string {
	var headerRow table.Row
	for _, name := range header {
		headerRow = append(headerRow, name)
	}

	var gridRows []table.Row
	for _, row := range rows {
		var cells table.Row
		for _, cell := range row {
			cells = append(cells, cell)
		}
		gridRows = append(gridRows, cells)
	}

	t := table.NewWriter()
	t.AppendHeader(headerRow)
	t.AppendRows(gridRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	return t.Render()
}
