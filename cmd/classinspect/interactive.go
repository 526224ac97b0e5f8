package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/probeum/classkit/classfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	attrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectModel struct {
	err      error
	filename string
	depth    int
	cf       *classfile.ClassFile
	header   string
	methods  []methodInfo
	visible  []int // indices into methods after filtering
	filter   textinput.Model
	selected int
	state    modelState
}

type methodInfo struct {
	name    string
	desc    string
	flags   uint16
	code    *classfile.CodeAttr
	attrs   []string
	display string
}

type modelState int

const (
	stateMethodList modelState = iota
	stateMethodDetail
)

type loadedClassMsg struct {
	err     error
	cf      *classfile.ClassFile
	header  string
	methods []methodInfo
}

func newInspectModel(filename string, depth int) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "filter methods"
	ti.Prompt = "/ "
	ti.Width = 40
	return &inspectModel{
		filename: filename,
		depth:    depth,
		filter:   ti,
		state:    stateMethodList,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadClass
}

func (m *inspectModel) loadClass() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedClassMsg{err: err}
	}

	cf, err := classfile.ParseDepth(data, m.depth)
	if err != nil {
		return loadedClassMsg{err: err}
	}

	name, _ := cf.ClassName()
	super, _ := cf.SuperClassName()
	header := fmt.Sprintf("%s  %s  pool=%d", name, cf.JavaVersion(), cf.ConstantPool.Size())
	if super != "" {
		header += "  extends " + super
	}

	methods := make([]methodInfo, 0, len(cf.Methods))
	for i := range cf.Methods {
		mm := &cf.Methods[i]
		mi := methodInfo{flags: mm.AccessFlags, code: mm.Code()}
		mi.name, _ = mm.Name(cf.ConstantPool)
		mi.desc, _ = mm.Descriptor(cf.ConstantPool)
		for _, a := range mm.Attributes {
			mi.attrs = append(mi.attrs, attrSummary(cf, a))
		}
		mi.display = mi.name + mi.desc
		methods = append(methods, mi)
	}

	return loadedClassMsg{cf: cf, header: header, methods: methods}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "enter", "esc":
				m.filter.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateMethodList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateMethodList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateMethodList {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			if m.state == stateMethodList && len(m.visible) > 0 {
				m.state = stateMethodDetail
			}

		case "esc":
			if m.state == stateMethodDetail {
				m.state = stateMethodList
			}
		}

	case loadedClassMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cf = msg.cf
		m.header = msg.header
		m.methods = msg.methods
		m.applyFilter()
	}

	return m, nil
}

func (m *inspectModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, mi := range m.methods {
		if query == "" || strings.Contains(strings.ToLower(mi.display), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.cf == nil {
		return "Loading class..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Class Inspector"))
	b.WriteString(" ")
	b.WriteString(m.header)
	b.WriteString("\n\n")

	switch m.state {
	case stateMethodList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")

		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no methods match"))
			b.WriteString("\n")
		}
		for pos, idx := range m.visible {
			mi := m.methods[idx]
			line := methodStyle.Render(mi.name) + descStyle.Render(mi.desc)
			if pos == m.selected {
				b.WriteString(selectedStyle.Render("> " + mi.display))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter detail • / filter • q quit"))

	case stateMethodDetail:
		mi := m.methods[m.visible[m.selected]]
		b.WriteString(methodStyle.Render(mi.name))
		b.WriteString(descStyle.Render(mi.desc))
		b.WriteString(fmt.Sprintf("\nflags: 0x%04X\n\n", mi.flags))

		if mi.code != nil {
			b.WriteString(fmt.Sprintf("bytecode: %d bytes\n", len(mi.code.Code)))
			b.WriteString(fmt.Sprintf("max_stack: %d  max_locals: %d\n", mi.code.MaxStack, mi.code.MaxLocals))
			b.WriteString(fmt.Sprintf("exception handlers: %d\n", len(mi.code.ExceptionTable)))
		} else {
			b.WriteString("no Code attribute (abstract or native)\n")
		}

		if len(mi.attrs) > 0 {
			b.WriteString("\nattributes:\n")
			for _, a := range mi.attrs {
				b.WriteString("  ")
				b.WriteString(attrStyle.Render(a))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, depth int) error {
	p := tea.NewProgram(newInspectModel(filename, depth), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
