// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of running a tea.Program, the driver calls Update directly and
// executes every returned Cmd inline, feeding its message back into the
// model until nothing is left. Cmds that block on timers (ticks, blinks)
// are abandoned after a short timeout.
package teatest

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds the chain of Cmds triggered by a single message.
const MaxDrainDepth = 100

// cmdTimeout separates immediate Cmds (service calls against an in-memory
// database, message factories) from timer-driven ones.
const cmdTimeout = 50 * time.Millisecond

// Driver holds the model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been returned by the model.
	Quitting bool
	// Delivered records every message passed to Update, in order.
	Delivered []tea.Msg
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New creates a Driver and applies opts. Call Start to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs the model's Init command to completion.
func (d *Driver) Start() *Driver {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
	return d
}

// Send delivers msg and drains the resulting Cmds. Nothing is delivered
// after the model quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.update(msg), 0)
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"ctrl+c": tea.KeyCtrlC,
	"space":  tea.KeySpace,
}

// Press sends each key in turn. Names such as "enter", "down" or "ctrl+c"
// map to special keys; anything else is typed as runes.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		if kt, ok := namedKeys[k]; ok {
			d.Send(tea.KeyMsg{Type: kt})
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

// RequireView fails the test unless the rendered view contains every
// fragment.
func (d *Driver) RequireView(fragments ...string) {
	d.T.Helper()
	view := d.View()
	for _, f := range fragments {
		if !strings.Contains(view, f) {
			d.T.Fatalf("view does not contain %q:\n%s", f, view)
		}
	}
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Delivered = append(d.Delivered, msg)
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return cmd
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining at depth %d", depth)
		return
	}

	msg, ok := run(cmd)
	if !ok || msg == nil {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		d.drain(d.update(msg), depth+1)
	}
}

// run executes cmd, giving up after cmdTimeout.
func run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}
