package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

func testLibrary(t *testing.T, names ...string) *stencil.Library {
	t.Helper()
	lib := stencil.NewLibrary()
	for _, name := range names {
		doc := `<shape xmlns:svg="http://www.w3.org/2000/svg"><name>` + name + `</name>` +
			`<svg:svg><svg:rect x="0" y="0" width="2" height="1"/></svg:svg></shape>`
		root, err := markup.Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatal(err)
		}
		tmpl, err := stencil.Parse(root)
		if err != nil {
			t.Fatal(err)
		}
		if err := lib.Add(tmpl); err != nil {
			t.Fatal(err)
		}
	}
	return lib
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m ShapeListModel, keys ...string) (ShapeListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ShapeListModel)
	}
	return m, cmd
}

func TestShapeListModelNavigate(t *testing.T) {
	m := NewShapeListModel(testLibrary(t, "Net - Hub", "Net - Router", "Net - Switch"))

	m, _ = send(m, "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor after up = %d, want 0", m.Cursor)
	}
	m, _ = send(m, "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor after 3 downs = %d, want 2", m.Cursor)
	}
	m, cmd := send(m, "enter")
	if m.Selected == nil || m.Selected.Name() != "Net - Switch" {
		t.Fatalf("Selected = %v, want Net - Switch", m.Selected)
	}
	if cmd == nil {
		t.Error("enter returned no command, want tea.Quit")
	}
}

func TestShapeListModelFilter(t *testing.T) {
	m := NewShapeListModel(testLibrary(t, "Net - Hub", "Net - Router", "Net - Switch"))

	m, _ = send(m, "r", "o")
	if len(m.Visible) != 1 || m.Visible[0].Name() != "Net - Router" {
		t.Fatalf("Visible after filter %q = %d templates", m.Filter, len(m.Visible))
	}
	if len(m.All) != 3 {
		t.Errorf("All = %d templates, want 3", len(m.All))
	}

	m, _ = send(m, "backspace", "backspace")
	if m.Filter != "" || len(m.Visible) != 3 {
		t.Errorf("after backspace Filter = %q, Visible = %d, want \"\", 3", m.Filter, len(m.Visible))
	}

	m, _ = send(m, "x", "y", "z", "enter")
	if m.Selected != nil {
		t.Errorf("Selected = %v with empty list, want nil", m.Selected.Name())
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Error("View() does not show [0/0] for an empty list")
	}
}

func TestShapeListModelQuit(t *testing.T) {
	m := NewShapeListModel(testLibrary(t, "Net - Hub"))
	m, cmd := send(m, "esc")
	if cmd == nil {
		t.Fatal("esc returned no command, want tea.Quit")
	}
	if m.Selected != nil {
		t.Error("Selected set after esc")
	}
}
