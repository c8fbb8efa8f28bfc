package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/isofar/wayfinder/pkg/editor"
	"github.com/isofar/wayfinder/pkg/mapgraph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// moveStep is how far a node moves per keypress, in map pixels.
const moveStep = 25

// editCommand creates the edit command for interactive map editing.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Interactively edit the map graph",
		Long: `Edit opens an interactive node list. Nodes can be added, moved, and
deleted, and edges toggled between the selected node and a link
target. Changes are kept in memory until saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			model := NewEditorModel(sess)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(EditorModel); ok {
				for _, ch := range m.Session.History() {
					c.Logger.Debug("edit", "session", ch.Session, "seq", ch.Seq, "op", ch.Op, "detail", ch.Detail)
				}
				if m.Session.Dirty() {
					printWarning("unsaved changes discarded (use s to save before quitting)")
				}
			}
			return nil
		},
	}
}

// =============================================================================
// EditorModel - Interactive map editing
// =============================================================================

// Editing modes.
const (
	modeBrowse = iota // navigate the node list
	modeMove          // arrow keys move the selected node
	modeLink          // choose a second node to toggle an edge
)

// EditorModel is the bubbletea model for the map editor.
type EditorModel struct {
	Session *editor.Session

	nodes  []mapgraph.Node
	cursor int
	offset int
	height int

	mode   int
	linkTo int // cursor within link mode
	status string
}

// NewEditorModel creates an editor model over the given session.
func NewEditorModel(sess *editor.Session) EditorModel {
	m := EditorModel{
		Session: sess,
		height:  15,
	}
	m.reload()
	return m
}

// reload refreshes the node list after a mutation.
func (m *EditorModel) reload() {
	m.nodes = m.Session.Graph().Nodes()
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeMove:
			return m.updateMove(msg), nil
		case modeLink:
			return m.updateLink(msg), nil
		default:
			return m.updateBrowse(msg)
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m EditorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "a":
		id, err := m.Session.AddNode(mapgraph.Node{
			X: mapgraph.MapWidth / 2,
			Y: mapgraph.MapHeight / 2,
		})
		if err != nil {
			m.status = err.Error()
			break
		}
		m.reload()
		m.status = "added node " + id
	case "d":
		if len(m.nodes) == 0 {
			break
		}
		id := m.nodes[m.cursor].ID
		if err := m.Session.RemoveNode(id); err != nil {
			m.status = err.Error()
			break
		}
		m.reload()
		m.status = "removed node " + id
	case "m":
		if len(m.nodes) > 0 {
			m.mode = modeMove
			m.status = "move mode: arrows move node, esc done"
		}
	case "e", "w":
		if len(m.nodes) > 1 {
			m.mode = modeLink
			m.linkTo = (m.cursor + 1) % len(m.nodes)
			m.status = "link mode: pick target, enter toggles land, w toggles water"
		}
	case "s":
		if err := m.Session.Save(context.Background()); err != nil {
			m.status = err.Error()
			break
		}
		m.status = "map saved"
	}
	return m, nil
}

func (m EditorModel) updateMove(msg tea.KeyMsg) EditorModel {
	node := m.nodes[m.cursor]
	dx, dy := 0.0, 0.0
	switch msg.String() {
	case "esc", "m", "enter", "q":
		m.mode = modeBrowse
		m.status = ""
		return m
	case "up", "k":
		dy = -moveStep
	case "down", "j":
		dy = moveStep
	case "left", "h":
		dx = -moveStep
	case "right", "l":
		dx = moveStep
	default:
		return m
	}
	if err := m.Session.MoveNode(node.ID, node.X+dx, node.Y+dy); err != nil {
		m.status = err.Error()
		return m
	}
	m.reload()
	m.status = fmt.Sprintf("moved %s", node.ID)
	return m
}

func (m EditorModel) updateLink(msg tea.KeyMsg) EditorModel {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		m.status = ""
	case "up", "k":
		m.linkTo = (m.linkTo - 1 + len(m.nodes)) % len(m.nodes)
	case "down", "j":
		m.linkTo = (m.linkTo + 1) % len(m.nodes)
	case "enter":
		m.toggleEdge(mapgraph.EdgeLand)
	case "w":
		m.toggleEdge(mapgraph.EdgeWater)
	}
	return m
}

func (m *EditorModel) toggleEdge(typ mapgraph.EdgeType) {
	a := m.nodes[m.cursor].ID
	b := m.nodes[m.linkTo].ID
	created, err := m.Session.ToggleEdge(a, b, typ)
	m.mode = modeBrowse
	if err != nil {
		m.status = err.Error()
		return
	}
	if created {
		m.status = fmt.Sprintf("added %s edge %s -- %s", typ, a, b)
	} else {
		m.status = fmt.Sprintf("removed edge %s -- %s", a, b)
	}
}

func (m *EditorModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "Map Editor"
	if m.Session.Dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  a add  d delete  m move  e edge  s save  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	graph := m.Session.Graph()
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]

		cursor := "  "
		switch {
		case m.mode == modeLink && i == m.linkTo:
			cursor = "◆ "
		case i == m.cursor:
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			n.ID,
			n.DisplayName(),
			fmt.Sprintf("%.0f, %.0f", n.X, n.Y),
			fmt.Sprintf("%d", len(graph.Neighbors(n.ID))),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "ID", "Name", "Position", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
