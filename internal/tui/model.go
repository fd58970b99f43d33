package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/miniapp"
)

// Host is a bridge that can report the backend's answer after the session
// closed.
type Host interface {
	miniapp.Bridge
	Reply() (bot.Reply, bool)
}

type focus int

const (
	focusNone focus = iota
	focusComment
	focusAbbr
	focusFull
)

type menuItem struct {
	label string
	page  miniapp.PageID
	admin bool
}

var menu = []menuItem{
	{label: "📝 Отчёт о работе", page: miniapp.PageReport},
	{label: "📊 Моя статистика", page: miniapp.PageStats},
	{label: "➕ Новый проект", page: miniapp.PageProjects, admin: true},
	{label: "📋 Все проекты", page: miniapp.PageAdminProjects, admin: true},
	{label: "📈 Статистика сотрудников", page: miniapp.PageAdminStats, admin: true},
}

// Model is the bubbletea program state.
type Model struct {
	ctrl   *miniapp.Controller
	screen *Screen
	host   Host
	styles styles

	cursor  int
	focus   focus
	comment textinput.Model
	abbr    textinput.Model
	full    textinput.Model

	err  error
	done bool
}

// NewModel starts a controller session over screen and host.
func NewModel(lc miniapp.LaunchContext, host Host, opts miniapp.Options) Model {
	screen := NewScreen()
	ctrl := miniapp.NewController(lc, screen, host, opts)
	ctrl.Start()

	comment := textinput.New()
	comment.Placeholder = "Что сделано"
	comment.CharLimit = 500

	abbr := textinput.New()
	abbr.Placeholder = miniapp.PreviewAbbrPlaceholder
	abbr.CharLimit = 10

	full := textinput.New()
	full.Placeholder = miniapp.PreviewFullPlaceholder
	full.CharLimit = 100

	return Model{
		ctrl:    ctrl,
		screen:  screen,
		host:    host,
		styles:  newStyles(screen.theme),
		comment: comment,
		abbr:    abbr,
		full:    full,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Done reports whether a payload was delivered.
func (m Model) Done() bool { return m.done }

// Err returns the last delivery error.
func (m Model) Err() error { return m.err }

// Controller exposes the session state.
func (m Model) Controller() *miniapp.Controller { return m.ctrl }

// Screen exposes what the controller rendered.
func (m Model) Screen() *Screen { return m.screen }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.focus != focusNone {
		return m.updateInput(key)
	}

	switch key.String() {
	case "q":
		if m.screen.Page() == miniapp.PageHome {
			return m, tea.Quit
		}
	case "esc", "backspace":
		m.ctrl.Back()
		m.cursor = 0
		return m, nil
	}

	switch m.screen.Page() {
	case miniapp.PageHome:
		return m.updateHome(key)
	case miniapp.PageReport:
		return m.updateReport(key)
	case miniapp.PageProjects:
		return m.updateRegistration(key)
	default:
		switch key.String() {
		case "up", "k":
			m.screen.Scroll(-1)
		case "down", "j":
			m.screen.Scroll(1)
		}
	}
	return m, nil
}

func (m Model) updateHome(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.menuItems()
	switch key.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = max(0, min(len(items)-1, m.cursor+1))
	case "enter", " ":
		m.ctrl.GoTo(items[m.cursor].page)
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updateReport(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	draft := m.ctrl.Draft()
	switch key.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = max(0, min(len(m.screen.cards)-1, m.cursor+1))
	case "enter", " ":
		if err := m.ctrl.SelectProject(m.cursor); err != nil {
			m.err = err
		}
	case "left", "-", "h":
		m.ctrl.SetQuantity(draft.Quantity - miniapp.QuantityStep)
	case "right", "+", "=", "l":
		m.ctrl.SetQuantity(draft.Quantity + miniapp.QuantityStep)
	case "1", "2", "3", "4":
		i := int(key.Runes[0] - '1')
		if i < len(miniapp.QuickQuantities) {
			m.ctrl.PickShortcut(miniapp.QuickQuantities[i])
		}
	case "tab", "c":
		m.focus = focusComment
		cmd := m.comment.Focus()
		return m, cmd
	case "s", "ctrl+s":
		return m.submit(m.ctrl.SubmitReport())
	}
	return m, nil
}

func (m Model) updateRegistration(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "tab", "a", "enter":
		m.focus = focusAbbr
		cmd := m.abbr.Focus()
		return m, cmd
	case "s", "ctrl+s":
		return m.submit(m.ctrl.SubmitNewProject())
	}
	return m, nil
}

func (m Model) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.blur()
		return m, nil
	case tea.KeyTab, tea.KeyEnter:
		switch m.focus {
		case focusComment:
			m.blur()
			if key.Type == tea.KeyEnter {
				return m.submit(m.ctrl.SubmitReport())
			}
			return m, nil
		case focusAbbr:
			m.abbr.Blur()
			m.focus = focusFull
			cmd := m.full.Focus()
			return m, cmd
		case focusFull:
			m.blur()
			if key.Type == tea.KeyEnter {
				return m.submit(m.ctrl.SubmitNewProject())
			}
			m.focus = focusAbbr
			cmd := m.abbr.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusComment:
		m.comment, cmd = m.comment.Update(key)
		m.ctrl.SetComment(m.comment.Value())
	case focusAbbr:
		m.abbr, cmd = m.abbr.Update(key)
		if upper := m.ctrl.SetNewAbbr(m.abbr.Value()); upper != m.abbr.Value() {
			m.abbr.SetValue(upper)
		}
	case focusFull:
		m.full, cmd = m.full.Update(key)
		m.ctrl.SetNewFull(m.full.Value())
	}
	return m, cmd
}

func (m *Model) blur() {
	m.comment.Blur()
	m.abbr.Blur()
	m.full.Blur()
	m.focus = focusNone
}

// submit finishes the program once the controller closed the session.
// Validation failures are already on the screen.
func (m Model) submit(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if !isValidation(err) {
			m.err = err
		}
		return m, nil
	}
	m.err = nil
	if m.ctrl.Closed() {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func isValidation(err error) bool {
	if errors.Is(err, miniapp.ErrNoProjectSelected) {
		return true
	}
	_, ok := project.AsValidationErrors(err)
	return ok
}

func (m Model) menuItems() []menuItem {
	items := make([]menuItem, 0, len(menu))
	for _, item := range menu {
		if item.admin && !m.screen.admin {
			continue
		}
		items = append(items, item)
	}
	return items
}
