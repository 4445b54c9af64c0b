package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/plotforge/barchart/pkg/chart"
	"github.com/plotforge/barchart/pkg/dataset"
)

// newWatchCmd creates the watch command: a live terminal chart that
// recomputes the layout on every terminal resize, the same redraw loop a
// canvas host runs on window resize.
func newWatchCmd() *cobra.Command {
	var catCol, cntCol int
	var seed float64

	cmd := &cobra.Command{
		Use:   "watch [dataset]",
		Short: "Watch a dataset as a live terminal chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newWatchModel(args[0], dataset.Columns{Category: catCol, Count: cntCol}, seed)
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&catCol, "category-col", 0, "column index of the category name")
	cmd.Flags().IntVar(&cntCol, "count-col", 1, "column index of the item count")
	cmd.Flags().Float64Var(&seed, "seed", 0, "palette hue seed in [0,1)")
	return cmd
}

// watchModel is the bubbletea model. The terminal is the drawing surface:
// every WindowSizeMsg re-runs the aggregate → order → scale pipeline and
// the bars are re-laid-out for the new cell grid.
type watchModel struct {
	path    string
	columns dataset.Columns
	seed    float64

	sortKey chart.SortKey
	sortDir chart.SortDirection

	entries []chart.Entry
	scale   chart.Scale
	err     error

	width  int
	height int
}

func newWatchModel(path string, cols dataset.Columns, seed float64) watchModel {
	m := watchModel{
		path:    path,
		columns: cols,
		seed:    seed,
		sortKey: chart.SortByCategory,
		sortDir: chart.Ascending,
	}
	m.reload()
	return m
}

// reload re-reads the dataset and recomputes entries and scale.
func (m *watchModel) reload() {
	m.entries, m.scale, m.err = nil, chart.Scale{}, nil

	ds, err := dataset.ImportJSON(m.path)
	if err != nil {
		m.err = err
		return
	}
	totals, maxTotal, err := chart.Aggregate(ds.Rows, m.columns)
	if err != nil {
		m.err = err
		return
	}
	m.entries = chart.Order(totals, m.sortKey, m.sortDir)
	m.scale = chart.ScaleFor(maxTotal)
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.reload()
		case "s":
			if m.sortKey == chart.SortByCategory {
				m.sortKey = chart.SortByTotal
			} else {
				m.sortKey = chart.SortByCategory
			}
			m.reload()
		case "d":
			if m.sortDir == chart.Ascending {
				m.sortDir = chart.Descending
			} else {
				m.sortDir = chart.Ascending
			}
			m.reload()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.path))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("sort=%s/%s", m.sortKey, m.sortDir)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r reload  s sort key  d direction  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.entries) == 0 {
		b.WriteString(StyleDim.Render("(empty dataset)"))
		return b.String()
	}

	b.WriteString(m.renderBars())
	return b.String()
}

// renderBars lays the chart out for the current cell grid: the widest
// label sets the left inset and one horizontal cell equals
// scale.Max/usableWidth counts, mirroring the unit math of the surface
// layout with terminal cells as pixels.
func (m watchModel) renderBars() string {
	labelWidth := 0
	for _, e := range m.entries {
		if len(e.Category) > labelWidth {
			labelWidth = len(e.Category)
		}
	}

	usable := m.width - labelWidth - 12
	if usable < 10 {
		usable = 10
	}
	unit := float64(usable) / m.scale.Max

	colors := chart.NextColors(m.seed, len(m.entries))

	var b strings.Builder
	maxRows := m.height - 5
	for i, e := range m.entries {
		if maxRows > 0 && i >= maxRows {
			b.WriteString(StyleDim.Render(fmt.Sprintf("… %d more", len(m.entries)-i)))
			b.WriteString("\n")
			break
		}
		c := colors[i]
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
		cells := int(float64(e.Total) * unit)
		if cells < 1 && e.Total > 0 {
			cells = 1
		}

		b.WriteString(StyleValue.Render(fmt.Sprintf("%*s", labelWidth, e.Category)))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", cells)))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" %d", e.Total)))
		b.WriteString("\n")
	}
	return b.String()
}
