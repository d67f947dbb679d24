package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rep-table/rep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	occupiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	vacantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	headStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxEventLines = 8

type inspectorModel struct {
	table   *rep.Tracked[string]
	input   textinput.Model
	events  []string
	message string
	isErr   bool
}

func newInspectorModel(prefill int) *inspectorModel {
	ti := textinput.New()
	ti.Placeholder = "add <value> | get <handle> | rm <handle>"
	ti.Prompt = "> "
	ti.Width = 48
	ti.Focus()

	m := &inspectorModel{
		table: rep.NewTracked[string](),
		input: ti,
	}
	m.table.Subscribe(rep.ObserverFunc(m.record))

	for i := 0; i < prefill; i++ {
		m.table.Add(fmt.Sprintf("entry-%d", i))
	}
	return m
}

func (m *inspectorModel) record(e rep.Event) {
	var line string
	switch e.Type {
	case rep.EventAdded:
		line = fmt.Sprintf("add    %3d  %v", e.Handle, e.Value)
	case rep.EventRemoved:
		line = fmt.Sprintf("remove %3d  %v", e.Handle, e.Value)
	}
	m.events = append(m.events, line)
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}
}

func (m *inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.execute(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectorModel) execute(line string) {
	m.message = ""
	m.isErr = false
	if line == "" {
		return
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "add":
		if len(args) == 0 {
			m.fail("add needs a value")
			return
		}
		m.table.Add(strings.Join(args, " "))

	case "get":
		h, ok := m.parseHandle(args)
		if !ok {
			return
		}
		v, err := m.table.Get(h)
		if err != nil {
			m.fail(err.Error())
			return
		}
		m.message = fmt.Sprintf("slot %d holds %q", h, v)

	case "rm", "remove":
		h, ok := m.parseHandle(args)
		if !ok {
			return
		}
		if _, err := m.table.Remove(h); err != nil {
			m.fail(err.Error())
		}

	case "quit", "q":
		m.message = "press esc to quit"

	default:
		m.fail(fmt.Sprintf("unknown command %q", cmd))
	}
}

func (m *inspectorModel) fail(msg string) {
	m.message = msg
	m.isErr = true
}

func (m *inspectorModel) parseHandle(args []string) (rep.Handle, bool) {
	if len(args) != 1 {
		m.fail("expected one handle argument")
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		m.fail(fmt.Sprintf("bad handle %q", args[0]))
		return 0, false
	}
	return rep.Handle(n), true
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("rep-table inspector"))
	b.WriteString(fmt.Sprintf("  live %d / slots %d, removed %d\n\n",
		m.table.Len(), m.table.Cap(), m.table.Removed()))

	if head, ok := m.table.NextVacant(); ok {
		b.WriteString(headStyle.Render(fmt.Sprintf("firstVacant -> %d", head)))
	} else {
		b.WriteString(headStyle.Render("firstVacant -> none (next add appends)"))
	}
	b.WriteString("\n\n")

	occupied := make(map[rep.Handle]string)
	m.table.Each(func(h rep.Handle, v string) bool {
		occupied[h] = v
		return true
	})

	for i := 0; i < m.table.Cap(); i++ {
		h := rep.Handle(i)
		if v, ok := occupied[h]; ok {
			b.WriteString(occupiedStyle.Render(fmt.Sprintf("  %3d  %q", h, v)))
		} else if next, ok := m.table.VacantAfter(h); ok {
			b.WriteString(vacantStyle.Render(fmt.Sprintf("  %3d  vacant, next -> %d", h, next)))
		} else {
			b.WriteString(vacantStyle.Render(fmt.Sprintf("  %3d  vacant, end of free list", h)))
		}
		b.WriteString("\n")
	}
	if m.table.Cap() == 0 {
		b.WriteString(vacantStyle.Render("  (empty table)"))
		b.WriteString("\n")
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		for _, e := range m.events {
			b.WriteString(helpStyle.Render("  " + e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.message != "" {
		if m.isErr {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(m.message)
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter run command • esc quit"))

	return b.String()
}

func runInteractive(prefill int) error {
	p := tea.NewProgram(newInspectorModel(prefill), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
