package tui

// Dynamic grid for dataset and SqlBot results

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/internal/util"
)

const (
	minColWidth    = 12
	maxCellRunes   = 50
	moreColWidth   = 6
	loadingMessage = "Loading…"
	emptyMessage   = "No data. Press F1-F5 to load a tile."
)

// GridTable manages the display of the current grid contents
type GridTable struct {
	table   table.Model
	data    domain.GridData
	layout  columnLayout
	loading bool
	focused bool
	width   int
	height  int
}

// NewGridTable creates an empty grid
func NewGridTable(width, height int) *GridTable {
	t := table.New(
		table.WithColumns([]table.Column{{Title: "Grid", Width: max(width-10, 1)}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(max(height-4, 1)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	g := &GridTable{table: t, width: width, height: height}
	g.rebuild()
	return g
}

// Focus sets the grid as focused
func (g *GridTable) Focus() {
	g.focused = true
	g.table.Focus()
}

// Blur removes focus from the grid
func (g *GridTable) Blur() {
	g.focused = false
	g.table.Blur()
}

// IsFocused returns whether the grid is focused
func (g *GridTable) IsFocused() bool {
	return g.focused
}

// SetSize updates the outer dimensions, borders included
func (g *GridTable) SetSize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	g.table.SetHeight(max(height-4, 1))
	g.rebuild()
}

// SetData replaces the grid contents wholesale and resets the cursor
func (g *GridTable) SetData(data domain.GridData) {
	g.data = data
	g.rebuild()
	g.table.SetCursor(0)
}

// SetLoading toggles the loading placeholder
func (g *GridTable) SetLoading(loading bool) {
	if g.loading == loading {
		return
	}
	g.loading = loading
	g.rebuild()
}

// HasRows returns whether there are rows to select
func (g *GridTable) HasRows() bool {
	return !g.loading && len(g.data.Rows) > 0
}

// HiddenColumns returns how many columns did not fit
func (g *GridTable) HiddenColumns() int {
	return g.layout.hiddenCount
}

// SelectedRow returns the row under the cursor
func (g *GridTable) SelectedRow() (domain.Row, bool) {
	if !g.HasRows() {
		return nil, false
	}
	i := g.table.Cursor()
	if i < 0 || i >= len(g.data.Rows) {
		return nil, false
	}
	return g.data.Rows[i], true
}

func (g *GridTable) innerWidth() int {
	return max(g.width-4, minColWidth)
}

// rebuild recomputes columns and rows for the current state. Rows are cleared
// first since the table renders existing rows against the new columns.
func (g *GridTable) rebuild() {
	g.table.SetRows(nil)

	if g.loading {
		g.layout = columnLayout{}
		g.showMessage(loadingMessage)
		return
	}
	if g.data.Empty() {
		g.layout = columnLayout{}
		g.showMessage(emptyMessage)
		return
	}

	g.layout = computeColumnLayout(g.data.Headers(), g.innerWidth(), minColWidth)
	visible := len(g.layout.visible)
	cols := make([]table.Column, 0, visible+1)
	for _, h := range g.layout.visible {
		cols = append(cols, table.Column{Title: h, Width: max(g.layout.colWidth-2, 1)})
	}
	if g.layout.ellipsis {
		cols = append(cols, table.Column{Title: fmt.Sprintf("(+%d)", g.layout.hiddenCount), Width: moreColWidth})
	}

	rows := make([]table.Row, 0, len(g.data.Rows))
	for _, r := range g.data.Rows {
		row := make(table.Row, len(cols))
		for i := 0; i < visible; i++ {
			row[i] = formatCell(r.Cell(g.data.Columns[i].Key))
		}
		rows = append(rows, row)
	}
	g.table.SetColumns(cols)
	g.table.SetRows(rows)
}

func (g *GridTable) showMessage(msg string) {
	g.table.SetColumns([]table.Column{{Title: "Grid", Width: max(g.innerWidth()-2, 1)}})
	g.table.SetRows([]table.Row{{msg}})
}

// formatCell flattens a cell to one line and truncates long text
func formatCell(s string) string {
	return util.TruncateRunes(util.OneLine(s), maxCellRunes)
}

// Update forwards navigation keys while focused
func (g *GridTable) Update(msg tea.Msg) (*GridTable, tea.Cmd) {
	if !g.focused {
		return g, nil
	}
	var cmd tea.Cmd
	g.table, cmd = g.table.Update(msg)
	return g, cmd
}

// View renders the grid with its title and border
func (g *GridTable) View() string {
	title := "Grid"
	switch {
	case g.loading:
		title += " " + gridStatusStyle.Render("(loading)")
	case len(g.data.Rows) > 0:
		status := fmt.Sprintf("(%s rows", humanize.Comma(int64(len(g.data.Rows))))
		if g.layout.hiddenCount > 0 {
			status += fmt.Sprintf(", %d columns hidden", g.layout.hiddenCount)
		}
		status += ")"
		title += " " + gridStatusStyle.Render(status)
	}

	border := gridBorderStyle
	if g.focused {
		border = border.BorderForeground(lipgloss.Color("39"))
	}
	content := gridTitleStyle.Render(title) + "\n" + g.table.View()
	return border.Width(max(g.width-2, 1)).Render(content)
}
