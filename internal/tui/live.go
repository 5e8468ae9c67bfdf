// Package tui is an interactive terminal view of a running closed loop.
// Gains and the setpoint can be nudged while the loop runs, which makes it
// a quick manual tuning aid before committing numbers to a config file.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/motorlab/motorlab/internal/config"
	"github.com/motorlab/motorlab/internal/lab"
	"github.com/motorlab/motorlab/internal/pid"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	tickInterval = 33 * time.Millisecond
	historyLen   = 300
)

var paramNames = []string{"kp", "ki", "kd", "setpoint"}

type model struct {
	cfg      *config.Config
	registry *lab.Registry

	ctrl     *pid.Controller
	plant    lab.NoisyPlant
	setpoint float64
	simTime  float64
	output   float64

	paused bool
	cursor int
	errMsg string

	history    []float64
	outHistory []float64

	width  int
	height int
}

func newModel(cfg *config.Config) (*model, error) {
	m := &model{
		cfg:      cfg,
		registry: lab.NewRegistry(),
		setpoint: cfg.Setpoint.Value,
		width:    80,
		height:   24,
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild starts the loop over from rest with the current config.
func (m *model) rebuild() error {
	ctrl, err := lab.BuildController(m.cfg)
	if err != nil {
		return err
	}
	p, err := m.registry.GetPlant(m.cfg.Plant)
	if err != nil {
		return err
	}
	if m.cfg.Noise > 0 {
		p.SetNoise(m.cfg.Noise, m.cfg.Seed)
	}

	m.ctrl = ctrl
	m.plant = p
	m.simTime = 0
	m.output = 0
	m.history = m.history[:0]
	m.outHistory = m.outHistory[:0]
	return nil
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			steps := int(tickInterval.Seconds() / m.cfg.Dt)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) step() {
	measurement := m.plant.Measure()
	m.output = m.ctrl.Compute(m.setpoint, measurement)
	m.plant.Apply(m.output, m.cfg.Dt)
	m.simTime += m.cfg.Dt

	m.history = append(m.history, measurement)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
	m.outHistory = append(m.outHistory, m.output)
	if len(m.outHistory) > historyLen {
		m.outHistory = m.outHistory[1:]
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.rebuild(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, tea.ClearScreen
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(paramNames)-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(+1)
	}
	return m, nil
}

// adjust nudges the selected parameter. Gains move multiplicatively so the
// same keys are useful at any magnitude; the setpoint moves in unit steps.
// Accepted values are written back into the config so a restart resumes
// from the tuned numbers instead of the starting ones.
func (m *model) adjust(dir int) {
	kp, ki, kd := m.ctrl.Gains()
	factor := 1.1
	if dir < 0 {
		factor = 1 / factor
	}

	switch paramNames[m.cursor] {
	case "kp":
		kp = nudgeGain(kp, factor, dir)
	case "ki":
		ki = nudgeGain(ki, factor, dir)
	case "kd":
		kd = nudgeGain(kd, factor, dir)
	case "setpoint":
		m.setpoint += float64(dir)
		m.cfg.Setpoint.Value = m.setpoint
		return
	}

	// Invalid combinations keep the previous gains
	if err := m.ctrl.SetGains(kp, ki, kd); err == nil {
		m.cfg.Gains = config.GainsConfig{Kp: kp, Ki: ki, Kd: kd}
	}
}

func nudgeGain(v, factor float64, dir int) float64 {
	if v == 0 {
		if dir > 0 {
			return 0.001
		}
		return 0
	}
	return v * factor
}

func (m model) View() string {
	var b strings.Builder

	kp, ki, kd := m.ctrl.Gains()
	status := "running"
	if m.paused {
		status = "paused"
	}

	b.WriteString("\n")
	b.WriteString("  " + cyan.Render(m.cfg.Plant) + "  " +
		dim.Render(fmt.Sprintf("t=%.1fs", m.simTime)) + "  " +
		dimmer.Render(status) + "\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", m.chartWidth()+8)) + "\n")

	if len(m.history) >= 2 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(m.chartHeight()),
			asciigraph.Width(m.chartWidth()),
			asciigraph.Caption(fmt.Sprintf("measurement (setpoint %.1f)", m.setpoint)),
		)
		b.WriteString(indent(chart) + "\n")
	}
	if len(m.outHistory) >= 2 {
		chart := asciigraph.Plot(m.outHistory,
			asciigraph.Height(4),
			asciigraph.Width(m.chartWidth()),
			asciigraph.Caption("control output"),
		)
		b.WriteString(indent(chart) + "\n")
	}

	b.WriteString("\n")
	values := map[string]float64{"kp": kp, "ki": ki, "kd": kd, "setpoint": m.setpoint}
	for i, name := range paramNames {
		val := fmt.Sprintf("%10.4f", values[name])
		if i == m.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("    " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n  " + magenta.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("  ↑↓ select  ←→ adjust  space pause  r restart  q quit") + "\n")

	return b.String()
}

func (m model) chartWidth() int {
	w := m.width - 12
	if w < 40 {
		w = 40
	}
	return w
}

func (m model) chartHeight() int {
	h := m.height - 18
	if h < 8 {
		h = 8
	}
	return h
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "  " + lines[i]
	}
	return strings.Join(lines, "\n")
}

// Run starts the live view and blocks until the user quits.
func Run(cfg *config.Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(*m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
