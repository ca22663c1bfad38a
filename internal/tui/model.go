// Package tui is the interactive terminal front end. It renders
// reconciler snapshots and turns key presses into reconciler commands;
// it holds only input text, the cursor, and the row being edited.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/todos/internal/reconcile"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Reconciler is the state owner the model drives. *reconcile.Reconciler
// implements it.
type Reconciler interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, title string) (types.Item, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) error
	Rename(ctx context.Context, id int64, title string) (reconcile.RenameOutcome, error)
	ToggleAll(ctx context.Context) error
	ClearCompleted(ctx context.Context) error
	SetFilter(m types.FilterMode)
	DismissError()
	Snapshot() reconcile.Snapshot
	Changes() <-chan struct{}
}

// focus identifies what receives keystrokes.
type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
)

// changedMsg is delivered whenever the reconciler signals a change.
type changedMsg struct{}

// resultMsg reports a finished command. Failures are already shown by the
// reconciler's error notice; the model only logs them.
type resultMsg struct {
	op  string
	err error
}

// createdMsg reports a finished create so the input can be reset.
type createdMsg struct {
	title string
	err   error
}

// Model is the bubbletea model.
type Model struct {
	rec       Reconciler
	ctx       context.Context
	logger    *slog.Logger
	keys      KeyMap
	styles    Styles
	setupHint string

	input   textinput.Model
	edit    textinput.Model
	spinner spinner.Model
	help    help.Model

	snap      reconcile.Snapshot
	focus     focus
	cursor    int
	editingID int64
	width     int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithContext sets the context passed to reconciler commands.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithKeyMap overrides DefaultKeyMap.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithSetupHint sets the text shown when no owner is configured.
func WithSetupHint(hint string) Option {
	return func(m *Model) { m.setupHint = hint }
}

// New returns a model over rec. A nil rec means no owner is configured:
// the model renders a setup notice and never issues commands.
func New(rec Reconciler, opts ...Option) Model {
	m := Model{
		rec:    rec,
		ctx:    context.Background(),
		keys:   DefaultKeyMap,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}

	m.input = textinput.New()
	m.input.Placeholder = "What needs to be done?"
	m.input.Prompt = "❯ "
	m.input.Focus()

	m.edit = textinput.New()
	m.edit.Prompt = ""

	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot))
	m.help = help.New()

	if rec != nil {
		m.snap = rec.Snapshot()
	}
	return m
}

// Init implements tea.Model. It starts the initial load and the change
// listener.
func (m Model) Init() tea.Cmd {
	if m.rec == nil {
		return nil
	}
	return tea.Batch(
		m.load(),
		listenForChanges(m.rec.Changes()),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// listenForChanges blocks until the reconciler signals, then delivers a
// changedMsg. Update re-arms it after every delivery.
func listenForChanges(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.refresh()
		return m, listenForChanges(m.rec.Changes())

	case createdMsg:
		if msg.err == nil && m.input.Value() == msg.title {
			m.input.SetValue("")
		}
		m.logResult("create todo", msg.err)
		m.refresh()
		return m, nil

	case resultMsg:
		m.logResult(msg.op, msg.err)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.rec == nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.focus {
		case focusEdit:
			return m.updateEdit(msg)
		case focusList:
			return m.updateList(msg)
		default:
			return m.updateInput(msg)
		}
	}

	return m.forward(msg)
}

// forward passes messages such as cursor blinks to the focused input.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusEdit:
		m.edit, cmd = m.edit.Update(msg)
	}
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.snap.InputDisabled {
			return m, nil
		}
		return m, m.create(m.input.Value())
	case key.Matches(msg, m.keys.Cancel):
		m.rec.DismissError()
		return m, nil
	case key.Matches(msg, m.keys.FocusSwitch):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	if m.snap.InputDisabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, hasSelection := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusSwitch):
		m.focus = focusInput
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Cancel):
		m.rec.DismissError()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if hasSelection {
			return m, m.run("toggle todo", func(ctx context.Context) error {
				return m.rec.Toggle(ctx, selected.ID)
			})
		}
	case key.Matches(msg, m.keys.Delete):
		if hasSelection && !m.snap.IsPending(selected.ID) {
			return m, m.run("delete todo", func(ctx context.Context) error {
				return m.rec.Delete(ctx, selected.ID)
			})
		}
	case key.Matches(msg, m.keys.Edit):
		if hasSelection {
			m.focus = focusEdit
			m.editingID = selected.ID
			m.edit.SetValue(selected.Title)
			m.edit.CursorEnd()
			m.edit.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.ToggleAll):
		if m.snap.HasItems() {
			return m, m.run("toggle all", m.rec.ToggleAll)
		}
	case key.Matches(msg, m.keys.ClearCompleted):
		if m.snap.CompletedCount > 0 {
			return m, m.run("clear completed", m.rec.ClearCompleted)
		}
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(types.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(types.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(types.FilterCompleted)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitEdit()
	case key.Matches(msg, m.keys.FocusSwitch), msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		// Leaving the row saves it.
		return m.submitEdit()
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	id, title := m.editingID, m.edit.Value()
	m.stopEditing()
	return m, m.run("rename todo", func(ctx context.Context) error {
		_, err := m.rec.Rename(ctx, id, title)
		return err
	})
}

func (m *Model) stopEditing() {
	m.focus = focusList
	m.editingID = 0
	m.edit.Blur()
	m.edit.SetValue("")
}

func (m *Model) setFilter(mode types.FilterMode) {
	m.rec.SetFilter(mode)
	m.refresh()
}

// refresh pulls a new snapshot and keeps the cursor in range.
func (m *Model) refresh() {
	if m.rec == nil {
		return
	}
	m.snap = m.rec.Snapshot()
	if m.cursor >= len(m.snap.Items) {
		m.cursor = len(m.snap.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (types.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Items) {
		return types.Item{}, false
	}
	return m.snap.Items[m.cursor], true
}

func (m Model) load() tea.Cmd {
	return m.run("load todos", m.rec.Load)
}

func (m Model) create(title string) tea.Cmd {
	rec, ctx := m.rec, m.ctx
	return func() tea.Msg {
		_, err := rec.Create(ctx, title)
		return createdMsg{title: title, err: err}
	}
}

// run executes fn off the update loop.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) logResult(op string, err error) {
	if err != nil {
		m.logger.Debug(op+" returned error", "error", err)
	}
}
