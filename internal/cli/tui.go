package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/diaconv/pkg/stencil"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// ShapeListModel is the bubbletea model for browsing a template library.
// Typing filters the list by name.
type ShapeListModel struct {
	All      []*stencil.Template
	Visible  []*stencil.Template
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *stencil.Template
}

// NewShapeListModel creates a model listing every template in lib by name.
func NewShapeListModel(lib *stencil.Library) ShapeListModel {
	names := lib.Names()
	all := make([]*stencil.Template, 0, len(names))
	for _, name := range names {
		t, _ := lib.Lookup(name)
		all = append(all, t)
	}
	return ShapeListModel{All: all, Visible: all, Height: 15}
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyEnter:
			if len(m.Visible) == 0 {
				return m, nil
			}
			m.Selected = m.Visible[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *ShapeListModel) move(delta int) {
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor > len(m.Visible)-1 {
		m.Cursor = max(len(m.Visible)-1, 0)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *ShapeListModel) applyFilter() {
	m.Visible = m.Visible[:0:0]
	needle := strings.ToLower(m.Filter)
	for _, t := range m.All {
		if strings.Contains(strings.ToLower(t.Name()), needle) {
			m.Visible = append(m.Visible, t)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Shape"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ preview  type to filter  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("/ " + m.Filter))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, shapeRow(m.Visible[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Points", "Text", "Aspect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.Visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.Visible))))

	return b.String()
}
