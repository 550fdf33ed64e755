package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskmaster/internal/app"
	"taskmaster/internal/config"
	"taskmaster/internal/task"
	"taskmaster/internal/view"
)

const (
	removeDelay   = 300 * time.Millisecond
	noticeTimeout = 3 * time.Second
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirm
)

type notice struct {
	id   int
	text string
	sev  app.Severity
}

type confirmation struct {
	message string
	onYes   app.Intent
}

// screen receives the controller callbacks. Model reads it back in View.
type screen struct {
	snap     app.Snapshot
	notice   *notice
	fresh    []int
	confirm  *confirmation
	noticeID int
}

func (s *screen) Render(snap app.Snapshot) {
	s.snap = snap
}

func (s *screen) Notify(message string, sev app.Severity) {
	s.noticeID++
	s.notice = &notice{id: s.noticeID, text: message, sev: sev}
	s.fresh = append(s.fresh, s.noticeID)
}

func (s *screen) Confirm(message string, onYes app.Intent) {
	s.confirm = &confirmation{message: message, onYes: onYes}
}

type dismissNoticeMsg struct{ id int }

type commitMsg struct{ intent app.Intent }

type Model struct {
	ctrl     *app.Controller
	scr      *screen
	cfg      config.Config
	log      *zap.Logger
	cursor   int
	mode     mode
	input    textinput.Model
	priority task.Priority
	editID   string
	removing map[string]bool
	now      func() time.Time
}

func New(store *task.Store, cfg config.Config, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	scr := &screen{}
	ctrl := app.NewController(store, scr, app.State{Filter: cfg.Filter()}, log)

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Width = 40

	return Model{
		ctrl:     ctrl,
		scr:      scr,
		cfg:      cfg,
		log:      log,
		mode:     modeList,
		input:    ti,
		priority: task.PriorityMedium,
		removing: map[string]bool{},
		now:      time.Now,
	}
}

// Run starts the program. loadErr is the result of hydrating the store and
// is shown to the user when non-nil.
func Run(store *task.Store, cfg config.Config, log *zap.Logger, loadErr error) error {
	m := New(store, cfg, log)
	m.ctrl.Start(loadErr)
	m.log.Info("starting ui", zap.Int("tasks", m.scr.snap.Counts.Total), zap.String("filter", string(m.scr.snap.Filter)))

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.noticeTimers()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(key)
		case modeAdd:
			return m.updateAddMode(key, msg)
		case modeEdit:
			return m.updateEditMode(key, msg)
		case modeSearch:
			return m.updateSearchMode(key, msg)
		}
		return m.updateListMode(key)
	case commitMsg:
		if rm, ok := msg.intent.(app.CommitRemove); ok {
			delete(m.removing, rm.ID)
		}
		m, cmd, _ := m.dispatch(msg.intent)
		return m, cmd
	case dismissNoticeMsg:
		if m.scr.notice != nil && m.scr.notice.id == msg.id {
			m.scr.notice = nil
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// dispatch sends an intent to the controller and picks up whatever the
// presenter callbacks left behind.
func (m Model) dispatch(in app.Intent) (Model, tea.Cmd, error) {
	err := m.ctrl.Dispatch(in)
	m.cursor = clampCursor(m.cursor, len(m.scr.snap.Tasks))
	if m.scr.confirm != nil {
		m.mode = modeConfirm
	}
	return m, m.noticeTimers(), err
}

func (m Model) noticeTimers() tea.Cmd {
	if len(m.scr.fresh) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.scr.fresh))
	for _, id := range m.scr.fresh {
		id := id
		cmds = append(cmds, tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
			return dismissNoticeMsg{id: id}
		}))
	}
	m.scr.fresh = nil
	return tea.Batch(cmds...)
}

func (m Model) selected() (task.Task, bool) {
	tasks := m.scr.snap.Tasks
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[clampCursor(m.cursor, len(tasks))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.scr.snap.Tasks))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.scr.snap.Tasks))
	case k.Add:
		m.mode = modeAdd
		m.priority = task.PriorityMedium
		m.input.SetValue("")
		m.input.Placeholder = "What needs to be done?"
		m.input.Focus()
	case k.Toggle:
		if t, ok := m.selected(); ok {
			m, cmd, _ := m.dispatch(app.Toggle{ID: t.ID})
			return m, cmd
		}
	case k.Delete:
		if t, ok := m.selected(); ok && !m.removing[t.ID] {
			m, cmd, _ := m.dispatch(app.RequestRemove{ID: t.ID})
			return m, cmd
		}
	case k.Edit:
		if t, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = t.ID
			m.input.SetValue(t.Text)
			m.input.Placeholder = "Task text"
			m.input.CursorEnd()
			m.input.Focus()
		}
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.scr.snap.Search)
		m.input.Placeholder = "Search tasks"
		m.input.CursorEnd()
		m.input.Focus()
	case k.CycleFilter:
		m, cmd, _ := m.dispatch(app.SetFilter{Filter: nextFilter(m.scr.snap.Filter)})
		return m, cmd
	case k.FilterAll:
		m, cmd, _ := m.dispatch(app.SetFilter{Filter: view.FilterAll})
		return m, cmd
	case k.FilterActive:
		m, cmd, _ := m.dispatch(app.SetFilter{Filter: view.FilterActive})
		return m, cmd
	case k.FilterDone:
		m, cmd, _ := m.dispatch(app.SetFilter{Filter: view.FilterCompleted})
		return m, cmd
	case k.ClearCompleted:
		m, cmd, _ := m.dispatch(app.ClearCompleted{})
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		return m.leaveInput(), nil
	case m.cfg.Keys.CyclePriority:
		m.priority = m.priority.Next()
		return m, nil
	case m.cfg.Keys.Confirm:
		m, cmd, err := m.dispatch(app.Create{Text: m.input.Value(), Priority: m.priority})
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			return m, cmd
		}
		m.cursor = 0
		return m.leaveInput(), cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		return m.leaveInput(), nil
	case m.cfg.Keys.Confirm:
		m, cmd, err := m.dispatch(app.Edit{ID: m.editID, Text: m.input.Value()})
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			return m, cmd
		}
		return m.leaveInput(), cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// Search applies on every keystroke; cancel clears the term.
func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m, cmd, _ := m.dispatch(app.SetSearch{Term: ""})
		return m.leaveInput(), cmd
	case m.cfg.Keys.Confirm:
		return m.leaveInput(), nil
	default:
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		m, cmd, _ := m.dispatch(app.SetSearch{Term: m.input.Value()})
		m.cursor = 0
		return m, tea.Batch(inputCmd, cmd)
	}
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	pending := m.scr.confirm
	switch key {
	case "y", "Y":
		m.scr.confirm = nil
		m.mode = modeList
		if pending == nil {
			return m, nil
		}
		if rm, ok := pending.onYes.(app.CommitRemove); ok {
			m.removing[rm.ID] = true
			intent := pending.onYes
			return m, tea.Tick(removeDelay, func(time.Time) tea.Msg {
				return commitMsg{intent: intent}
			})
		}
		m, cmd, _ := m.dispatch(pending.onYes)
		return m, cmd
	case "n", "N", m.cfg.Keys.Cancel:
		m.scr.confirm = nil
		m.mode = modeList
	}
	return m, nil
}

func (m Model) leaveInput() Model {
	m.mode = modeList
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) View() string {
	var b strings.Builder
	snap := m.scr.snap

	b.WriteString(titleStyle.Render("TaskMaster"))
	b.WriteString("  ")
	b.WriteString(renderTabs(snap.Filter))
	b.WriteString("\n")
	if snap.Search != "" && m.mode != modeSearch {
		b.WriteString(metaStyle.Render(fmt.Sprintf("search: %q", snap.Search)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderTaskList())
	b.WriteString("\n")
	b.WriteString(snap.Summary)
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(fmt.Sprintf("Add Task %s: ", priorityBadge(m.priority)))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeEdit:
		b.WriteString("Edit Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeConfirm:
		if m.scr.confirm != nil {
			b.WriteString(confirmStyle.Render(m.scr.confirm.message + " y/n"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if n := m.scr.notice; n != nil {
		b.WriteString(noticeStyles[n.sev].Render(n.text))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys, m.mode)))

	return b.String()
}

func (m Model) renderTaskList() string {
	tasks := m.scr.snap.Tasks
	if len(tasks) == 0 {
		if m.scr.snap.Counts.Total == 0 {
			return fmt.Sprintf("No tasks yet. Press '%s' to add one.\n", m.cfg.Keys.Add)
		}
		return "No tasks match.\n"
	}

	now := m.now()
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		text := t.Text
		meta := "Created " + view.RelativeAge(t.CreatedAt, now)
		switch {
		case m.removing[t.ID]:
			text = removingStyle.Render(text)
			meta += " (removing)"
		case t.Completed:
			text = doneTextStyle.Render(text)
		}

		fmt.Fprintf(&b, "%s %s %s %s %s", cursor, checkbox, text, priorityBadge(t.Priority), metaStyle.Render(meta))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTabs(current view.Filter) string {
	parts := make([]string, 0, 3)
	for _, f := range view.Filters() {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == current {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func renderHelp(k config.Keymap, md mode) string {
	switch md {
	case modeAdd:
		return fmt.Sprintf("%s save • %s priority • %s cancel", k.Confirm, k.CyclePriority, k.Cancel)
	case modeEdit:
		return fmt.Sprintf("%s save • %s cancel", k.Confirm, k.Cancel)
	case modeSearch:
		return fmt.Sprintf("type to filter • %s done • %s clear", k.Confirm, k.Cancel)
	case modeConfirm:
		return "y confirm • n cancel"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s search • %s/%s/%s/%s filter • %s clear done • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Edit, k.Delete, k.Search,
		k.CycleFilter, k.FilterAll, k.FilterActive, k.FilterDone, k.ClearCompleted, k.Quit)
}

func keyLabel(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func nextFilter(f view.Filter) view.Filter {
	filters := view.Filters()
	for i, candidate := range filters {
		if candidate == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return view.FilterAll
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
