package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/closure"
	"github.com/cPlayIt/motoko/icurl"
	"github.com/cPlayIt/motoko/trap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// operation is one entry of the menu. exec receives the raw input values.
type operation struct {
	exec   func(inputs []string) (string, error)
	name   string
	params []paramInfo
}

type paramInfo struct {
	name string
	hint string
}

var operations = []operation{
	{
		name:   "leb128 encode",
		params: []paramInfo{{"n", "non-negative integer"}},
		exec: func(in []string) (string, error) {
			res, err := encodeInt(in[0], false)
			return res.String(), err
		},
	},
	{
		name:   "sleb128 encode",
		params: []paramInfo{{"n", "integer"}},
		exec: func(in []string) (string, error) {
			res, err := encodeInt(in[0], true)
			return res.String(), err
		},
	},
	{
		name:   "leb128 decode",
		params: []paramInfo{{"bytes", "hex, e.g. e5 8e 26"}},
		exec: func(in []string) (string, error) {
			res, err := decodeInt(in[0], false)
			return res.String(), err
		},
	},
	{
		name:   "sleb128 decode",
		params: []paramInfo{{"bytes", "hex, e.g. c0 bb 78"}},
		exec: func(in []string) (string, error) {
			res, err := decodeInt(in[0], true)
			return res.String(), err
		},
	},
	{
		name:   "utf8 check",
		params: []paramInfo{{"text", `Go string escapes allowed, e.g. \xed\xa0\x80`}},
		exec: func(in []string) (string, error) {
			b, err := unescape(in[0])
			if err != nil {
				return "", err
			}
			return checkUTF8(b), nil
		},
	},
	{
		name:   "ic: url decode",
		params: []paramInfo{{"url", "ic:C0FEFED00D41"}},
		exec: func(in []string) (string, error) {
			payload := icurl.MustDecode(strings.TrimSpace(in[0]))
			return strings.ToUpper(hex.EncodeToString(payload)), nil
		},
	},
	{
		name:   "ic: url encode",
		params: []paramInfo{{"payload", "hex, e.g. c0 fe fe d0 0d"}},
		exec: func(in []string) (string, error) {
			return encodeURL(in[0])
		},
	},
	{
		name:   "remember closure",
		params: []paramInfo{{"value", "any text"}},
		exec: func(in []string) (string, error) {
			h := closure.Remember(in[0])
			return fmt.Sprintf("handle %d (%d live)", h, closure.Count()), nil
		},
	},
	{
		name:   "recall closure",
		params: []paramInfo{{"handle", "slot index"}},
		exec: func(in []string) (string, error) {
			h, err := strconv.ParseUint(strings.TrimSpace(in[0]), 10, 32)
			if err != nil {
				return "", err
			}
			v := closure.Recall(closure.Handle(h))
			return fmt.Sprintf("%q (%d live)", v, closure.Count()), nil
		},
	},
	{
		name: "dump closure table",
		exec: func(_ []string) (string, error) {
			var b bytes.Buffer
			err := closure.Default().Dump(&b)
			return strings.TrimRight(b.String(), "\n"), err
		},
	},
}

// unescape interprets Go string escapes without requiring quotes.
func unescape(s string) ([]byte, error) {
	q := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	u, err := strconv.Unquote(q)
	if err != nil {
		return nil, fmt.Errorf("bad escape in %q", s)
	}
	return []byte(u), nil
}

type interactiveModel struct {
	err      error
	result   string
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type resultMsg struct {
	err    error
	result string
}

// newInteractiveModel returns a model over the process-wide closure table.
func newInteractiveModel() *interactiveModel {
	return &interactiveModel{state: stateSelectOp}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(operations)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.execute
				}
				m.state = stateInputArgs
				return m, textinput.Blink

			case stateInputArgs:
				return m, m.execute

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state != stateSelectOp {
				m.reset()
			}
			return m, nil
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectOp
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	op := operations[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Placeholder = p.hint
		ti.Prompt = p.name + ": "
		ti.Width = 48
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// execute runs the selected operation. Traps never escape into the TUI.
func (m *interactiveModel) execute() tea.Msg {
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = input.Value()
	}

	var (
		out     string
		execErr error
	)
	err := trap.Catch(func() {
		out, execErr = operations[m.selected].exec(values)
	})
	if err == nil {
		err = execErr
	}
	return resultMsg{result: out, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Motoko RTS"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%d live closures", closure.Count()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range operations {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + op.name))
			} else {
				b.WriteString("  " + opStyle.Render(op.name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateInputArgs:
		op := operations[m.selected]
		b.WriteString(fmt.Sprintf("%s\n\n", opStyle.Render(op.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(hintStyle.Render(op.params[i].hint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowResult:
		op := operations[m.selected]
		b.WriteString(fmt.Sprintf("%s:\n\n", opStyle.Render(op.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(a *app) error {
	a.logger.Debug("interactive session", zap.Int("live_closures", closure.Count()))
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
